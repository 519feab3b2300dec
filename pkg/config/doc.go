/*
Package config loads transformation presets and remembers user preferences.

	            +-------------+
	            |   Config    |
	            |  (preset)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+
	                   |
	           ToTransform()
	                   |
	             text.Config

🎯 Purpose:
- Reads presets in any registered format
- Converts them into a validated text.Config
- Persists the last used operation and scope

🔄 Flow:
1. GetParser picks a parser by file extension
2. The parser decodes strictly, rejecting unknown fields
3. Validate builds the text.Config once to surface errors early

📝 Presets leave unset numbers nil, so defaults such as an enumeration
starting at 1 are kept unless the preset says otherwise.

🔍 Example:

	operation: replace
	scope: name
	replace:
	  find: "IMG_"
	  with: "holiday_%n_"
	  start: 1
*/
package config
