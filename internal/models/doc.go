// Package models defines the FitHub state document and the operations that change it.
//
// The package contains two kinds of declarations:
//
// 1. Entities: plain records persisted inside a single JSON document
//   - [User] : the stub session profile; present means logged in
//   - [Workout] : a logged exercise set
//   - [Food] : a nutrition entry
//   - [Goal] : a tracked target with progress
//   - [AppState] : the root document holding all of the above
//
// 2. Transforms: pure functions from one [AppState] to the next
//   - [AddItem] and [RemoveItem] : generic prepend and remove-by-id over a typed [CollectionOf]
//   - [RemoveByCollection] : the same removal addressed by a [Collection] name
//   - [SetUser], [ClearUser], [SetDarkMode] : session and display settings
//
// Transforms never modify the slices of their input, so a snapshot taken before a mutation stays valid after it.
package models
