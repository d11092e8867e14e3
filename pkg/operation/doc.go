/*
Package operation drives a patch run: it turns configs into per-file jobs,
loads each document once, applies every rule set to it and writes it back.

	+-------------+     +-------------+     +-------------+
	|   Config    | --> |   Runner    | --> |    Store    |
	| files, sets |     | (per file)  |     | load, write |
	+-------------+     +------+------+     +-------------+
	                           |
	                    +------+------+
	                    |   Patcher   |
	                    |   (pure)    |
	                    +-------------+

🔄 Flow:
1. Expands each config's files (doublestar globs allowed)
2. Groups rules by file, keeping config order
3. Loads, patches and writes each file in one pass
4. Returns a Report; nothing is printed here

⚡ Rules:
- A literal file that does not exist fails the run
- A glob that matches nothing is only a warning
- Two configs naming the same file share one read and one write
- Different files may be patched concurrently, one goroutine per file
- Dry runs never write and attach a unified diff instead
*/
package operation
