/*
Package provider computes new names from file contents or from a fixed
normalization, instead of from a text transformation.

	            +-------------+
	            |  Provider   |
	            | (names map) |
	            +------+------+
	                   |
	     +---------+---+-----+-----------+
	     |         |         |           |
	+----+---+ +---+----+ +--+---+ +-----+-----+
	|  EXIF  | |  ID3   | | Hash | | Normalize |
	| photos | | music  | | any  | |   names   |
	+--------+ +--------+ +------+ +-----------+

🎯 Purpose:
- Each provider maps entry URIs to proposed names
- Entries a provider cannot name are left out of the map
- The map is checked by preview.Validator.RunNames like any other pass

🔄 Flow:
1. provider.New picks a factory by name
2. Propose reads what it needs through the entry's backend
3. The caller previews the map and executes it as a normal batch

⚡ Notes:
- Read failures on single files are logged and skipped
- Hash reads run concurrently, bounded by Options.Concurrency
- Duplicate digests keep the first entry only
*/
package provider
