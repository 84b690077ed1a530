/*
Package ports defines the driven ports (interfaces) of the lean-gym session manager.

These interfaces decouple the dispatcher from external implementations, allowing
the session to work with any transformation engine and any transcript backend.

# Key Interfaces

  - Engine: The external engine collaborator (load task, parse, apply, render).
  - BranchStore: Append-only mapping from BranchID to StateHandle.
  - TranscriptSink: Records each exchange for offline analysis.
*/
package ports
