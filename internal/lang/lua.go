package lang

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// LoadLuaFile executes a Lua rules file against the registry. The script
// sees two functions:
//
//	language{name=..., aliases={...}, class=..., marker=...,
//	         colon_aligned=..., rules={{pattern=..., before=...,
//	         separator=...}, ...}}
//	alias("tag", "target")
//
// Scripts run with only the base, table, string, and math libraries; no
// file system or OS access is exposed.
func LoadLuaFile(r *Registry, path string) error {
	L := newRuleState(r)
	defer L.Close()
	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("lang: loading rules from %s: %w", path, err)
	}
	return nil
}

// LoadLuaScript executes Lua rule source directly, for embedded defaults
// and tests.
func LoadLuaScript(r *Registry, src string) error {
	L := newRuleState(r)
	defer L.Close()
	if err := L.DoString(src); err != nil {
		return fmt.Errorf("lang: loading rules script: %w", err)
	}
	return nil
}

func newRuleState(r *Registry) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	L.SetGlobal("language", L.NewFunction(func(L *lua.LState) int {
		spec, aliases, err := specFromTable(L.CheckTable(1))
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		if err := r.Register(spec, aliases...); err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		return 0
	}))

	L.SetGlobal("alias", L.NewFunction(func(L *lua.LState) int {
		if err := r.Alias(L.CheckString(1), L.CheckString(2)); err != nil {
			L.RaiseError("%s", err.Error())
		}
		return 0
	}))

	return L
}

func specFromTable(t *lua.LTable) (Spec, []string, error) {
	spec := Spec{
		Name:         tableString(t, "name"),
		Marker:       tableString(t, "marker"),
		ColonAligned: tableBool(t, "colon_aligned"),
	}

	class, err := ParseClass(tableString(t, "class"))
	if err != nil {
		return Spec{}, nil, err
	}
	spec.Class = class

	var aliases []string
	if raw, ok := t.RawGetString("aliases").(*lua.LTable); ok {
		for i := 1; ; i++ {
			v := raw.RawGetInt(i)
			if v == lua.LNil {
				break
			}
			aliases = append(aliases, v.String())
		}
	}

	if raw, ok := t.RawGetString("rules").(*lua.LTable); ok {
		for i := 1; ; i++ {
			v := raw.RawGetInt(i)
			if v == lua.LNil {
				break
			}
			rt, ok := v.(*lua.LTable)
			if !ok {
				return Spec{}, nil, fmt.Errorf("lang: rule %d of %q is not a table", i, spec.Name)
			}
			spec.Rules = append(spec.Rules, Rule{
				Pattern:   tableString(rt, "pattern"),
				Before:    tableBool(rt, "before"),
				Separator: tableBool(rt, "separator"),
			})
		}
	}

	return spec, aliases, nil
}

func tableString(t *lua.LTable, key string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func tableBool(t *lua.LTable, key string) bool {
	if b, ok := t.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return false
}
