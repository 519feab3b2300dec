/*
Package preview computes proposed names for a set of entries and checks that
renaming them is possible before anything touches a filesystem.

	  entries + config
	         |
	+--------v--------+
	|  text.Engine    |  (scope + transform, per entry)
	+--------+--------+
	         |
	+--------v--------+
	|   Validator     |  collision -> parent writable -> writable -> name
	+--------+--------+
	         |
	      Result        (proposals, problems, valid)

A pass never mutates entries or the filesystem. Every live entry gets exactly
one Proposal, even when the pass is invalid.
*/
package preview
