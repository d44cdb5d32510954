// Package config defines the typed configuration for the reflow engine
// and viewer, and the logic that builds the effective configuration at
// startup.
//
// Load order, later layers overriding earlier ones:
//
//	defaults ─► TOML file ─► CODEFIT_* environment ─► validation
//
// Sections are plain structs handed out by value; nothing here mutates
// after Load returns. Language sections merge into the break-rule
// registry via ApplyLanguages, and an optional Lua rules file named by
// lua_rules extends it further at startup.
package config
