/*
Package operation executes planned renames and rolls them back.

	            +-------------+
	            |   Runner    |
	            | (sync/async)|
	            +------+------+
	                   |
	      +------------+------------+
	      |                         |
	+-----+-----+             +-----+------+
	|   Batch   |  RenameLog  | RollbackOp |
	| (execute) +------------>+ (reverse)  |
	+-----+-----+             +-----+------+
	      |                         |
	      +--------> Events <-------+

🎯 Purpose:
- Applies a depth-ordered rename plan one entry at a time
- Records a backup of every name before the first rename
- Stops at the first failure and keeps completed renames in place
- Reverts completed renames on request, best effort

🔄 Flow:
1. Batch snapshots old names (Idle -> Running)
2. Each changed item is renamed through its backend
3. Renamed and Progress events are sent to the owner of the entries
4. The batch ends Completed or Failed
5. A RollbackOp may revert the successes in reverse order (RolledBack)

⚡ Key Responsibilities:
- Rename sequencing and fail-fast
- Failure classification (name too long, remote, generic)
- Rollback accounting

📝 Design Philosophy:
Workers never touch the entry set. Everything the owner needs to know is
carried by events, and the Runner delivers them on the caller's goroutine.
*/
package operation
