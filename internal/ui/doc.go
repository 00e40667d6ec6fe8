// Package ui contains the Bubble Tea program that renders the city list.
// The package is structured so the Model type focuses on message orchestration,
// while dedicated helpers own navigation, input, pointer handling, and
// rendering.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - Key presses go to the edit form while it is open. Everything else is
//     routed through a typed handler registry so each tea.Msg is handled by a
//     focused function (navigation for keys, mouse.go for taps and swipes,
//     backend.go for subscription pushes).
//   - Menu actions (internal/menu) never touch the store. They emit intent
//     messages (ChooserPrompt, CityPrompt, DeleteRequest) which the model hands
//     to the screen.Controller. The controller validates and returns a
//     screen.Op that runOp executes as a tea.Cmd; the outcome comes back as an
//     opResultMsg and is passed to Controller.HandleResult.
//
// State ownership:
//   - The city cache belongs to the controller and is only written when a
//     subscription push arrives. The model implements screen.Renderer and
//     rebuilds the root level from the cache in Refresh.
//   - Menu level state lives in internal/ui/state.Level, which tracks items,
//     filtering, and viewport calculations. Every row carries the cache index
//     of its city so filtering never changes what a gesture acts on.
//
// Backend interactions:
//   - A backend.Watcher streams store snapshots; Update waits for those events
//     and hands them to the controller.
//   - The document panel fetches the highlighted row's document with
//     docstore.Getter.Get off the event loop.
package ui
