/*
Package status tracks the outcome of each entry in a rename batch and
reports progress.

	            +-------------+
	            |   Manager   |
	            +------+------+
	                   |
	      +------------+------------+
	      |                         |
	+-----+-----+             +-----+-----+
	|  Entries  |             | Progress  |
	| (outcome) |             | (n/total) |
	+-----------+             +-----------+

🎯 Purpose:
- Records renamed, unchanged, failed and rolled back entries
- Reports processed/total while a batch runs
- Formats both for humans (Formatter) and for logs (zerolog)
*/
package status
