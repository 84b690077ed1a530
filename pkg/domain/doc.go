/*
Package domain contains the core domain models of the lean-gym session manager.

It defines the values that flow between the dispatcher, the branch store and the
engine collaborator. This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - BranchID: Stable identifier of one point in the exploration tree.
  - StateHandle: Opaque, immutable engine snapshot. The core never looks inside.
  - ParseResult / ApplyResult: Tagged outcomes reported by the engine.
  - Response: What the session answers for each command.
*/
package domain
