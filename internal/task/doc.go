// Package task holds the task graph and its scheduler.
//
// Tasks are registered by name with an ordered list of dependency names and
// a body. Run resolves a requested task into a dependency-first execution
// order by depth-first traversal, rejecting unknown names and cycles before
// any body executes, and then runs the bodies one at a time. A failing body
// aborts the rest of the schedule; work already done is not rolled back.
package task
