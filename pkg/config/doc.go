/*
Package config manages configuration parsing and validation for rewriterc.

	            +-------------+
	            |   Config    |
	            | (RuleSet)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   JSON    | |  YAML   | |    HCL    |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Loads the pattern rule table and directory globs from a config file
- Preserves rule ordering across every supported format
- Validates rules once at load time, before any file is touched
- Expands directory globs into the include-directory set

🔄 Flow:
1. Reads configuration from file
2. Parses format-specific syntax (extension selects the parser)
3. Validates rules and fills in defaults
4. Hands the validated config to pattern compilation and the walker

📝 Design Philosophy:
The config package is the source of truth for a run. Rule order matters
(later rules see the output of earlier rules), so every parser keeps the
document order of the pattern table instead of decoding into a map.
Configuration errors abort the run before any file is scanned.

🔍 Example:

	cfg, err := config.LoadConfig(ctx, ".rewriterc")
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	dirs, err := cfg.ExpandDirectories(ctx, ".")
*/
package config
