package lang

// genericSpec is the fallback for unrecognized languages: break after
// comma and semicolon statements and around parentheses.
func genericSpec() Spec {
	return Spec{
		Name:  "generic",
		Class: ClassPunctuated,
		Rules: []Rule{
			{Pattern: ", ", Separator: true},
			{Pattern: "; "},
			{Pattern: "("},
			{Pattern: ")", Before: true},
		},
	}
}

// registerBuiltins loads the built-in language tables. Rule order is the
// tie-break priority when two patterns match at the same offset; the
// rightmost fitting match still wins overall.
func registerBuiltins(r *Registry) {
	// C-family punctuation: argument commas, statement semicolons,
	// logical connectives broken before the operator, call parentheses.
	cFamily := []Rule{
		{Pattern: ", ", Separator: true},
		{Pattern: "; "},
		{Pattern: " && ", Before: true},
		{Pattern: " || ", Before: true},
		{Pattern: "("},
		{Pattern: ")", Before: true},
	}
	mustRegister(r, Spec{Name: "c", Class: ClassPunctuated, Rules: cFamily},
		"cpp", "c++", "h", "hpp", "cc", "objc",
		"java", "kotlin", "scala", "cs", "csharp",
		"go", "golang", "rust", "rs",
		"javascript", "js", "jsx", "typescript", "ts", "tsx",
		"swift", "dart", "php", "d", "zig")

	// Indentation languages share the C-family commas and parens but
	// gain keyword connectives broken before the word.
	python := []Rule{
		{Pattern: ", ", Separator: true},
		{Pattern: " and ", Before: true},
		{Pattern: " or ", Before: true},
		{Pattern: "("},
		{Pattern: ")", Before: true},
	}
	mustRegister(r, Spec{Name: "python", Class: ClassPunctuated, Rules: python},
		"py", "python3", "ruby", "rb", "lua", "elixir", "julia")

	sql := []Rule{
		{Pattern: ", ", Separator: true},
		{Pattern: " AND ", Before: true},
		{Pattern: " OR ", Before: true},
		{Pattern: " JOIN ", Before: true},
		{Pattern: " WHERE ", Before: true},
	}
	mustRegister(r, Spec{Name: "sql", Class: ClassPunctuated, Rules: sql},
		"mysql", "postgres", "postgresql", "sqlite", "plsql", "tsql")

	// Colon rule languages: selector and value commas break; the
	// continuation aligns past the property's ": " separator.
	commaOnly := []Rule{
		{Pattern: ", ", Separator: true},
	}
	mustRegister(r, Spec{Name: "css", Class: ClassPunctuated, ColonAligned: true, Rules: commaOnly},
		"scss", "sass", "less")
	mustRegister(r, Spec{Name: "yaml", Class: ClassPunctuated, ColonAligned: true, Rules: commaOnly},
		"yml")

	jsonRules := []Rule{
		{Pattern: ", ", Separator: true},
		{Pattern: "["},
		{Pattern: "{"},
		{Pattern: "]", Before: true},
		{Pattern: "}", Before: true},
	}
	mustRegister(r, Spec{Name: "json", Class: ClassPunctuated, Rules: jsonRules},
		"jsonc", "json5")

	// Shell-like command languages: whitespace is the argument boundary
	// and a trailing backslash keeps the broken command valid.
	mustRegister(r, Spec{Name: "bash", Class: ClassSpaced, Marker: `\`},
		"sh", "shell", "zsh", "console", "shell-session", "terminal",
		"dockerfile", "docker")
	mustRegister(r, Spec{Name: "powershell", Class: ClassSpaced, Marker: "`"},
		"ps1", "pwsh")

	// Whitespace-significant formats are never touched.
	mustRegister(r, Spec{Name: "asm", Class: ClassExcluded},
		"assembly", "nasm", "masm", "armasm", "x86asm", "avrasm", "mips", "s")
	mustRegister(r, Spec{Name: "make", Class: ClassExcluded},
		"makefile", "mk", "cmake")
	mustRegister(r, Spec{Name: "diff", Class: ClassExcluded},
		"patch", "udiff")
}

// mustRegister panics on a malformed built-in table; the tables above are
// compile-time constants, so a failure is a programming error.
func mustRegister(r *Registry, spec Spec, aliases ...string) {
	if err := r.Register(spec, aliases...); err != nil {
		panic(err)
	}
}
