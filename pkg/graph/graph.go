// Package graph defines the records that make up a conversation store:
// threads, messages, the process-wide index, and their on-disk JSON shape.
//
// A thread owns only the ids of its root messages. Messages link to each
// other by id through Parent and Branches; Children is always the flattened
// concatenation of Branches and exists for callers that ignore grouping.
package graph

// SchemaVersion is written into every freshly created index.
const SchemaVersion = "0.2"
