/*
Package config loads srcpatch rule-set configuration.

	            +-------------+
	            |   Config    |
	            | files, sets |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Reads a config file and picks a parser by extension
- Resolves relative files against the config file's directory
- Fills in defaults (mode "replace", scope "document")
- Expands every rule set once so bad patterns fail at load time

🔍 Example:

	files:
	  - components/HeaderLibrary.tsx
	rulesets:
	  - name: color-hooks
	    mode: insert
	    scope: declaration
	    pattern: '<% .Target %>: React\.FC<HeaderProps> = \(\{[^}]+headerButtonTextColor\s*\}\) => \{'
	    template: "\n  const colors = useHeaderColors();"
	    identifiers: [HeaderPop, HeaderStark]

	cfg, err := config.Load(ctx, "srcpatch.yaml")
	if err != nil {
		return err
	}
	rules, err := cfg.Rules()
*/
package config
