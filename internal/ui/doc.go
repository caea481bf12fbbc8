// Package ui implements the interactive FitHub terminal app using bubbletea's Elm architecture.
//
// The app shows a login screen until a profile exists, then a fixed set of pages:
//   - [DashboardPage] : derived statistics and the weekly breakdown
//   - [WorkoutPage], [NutritionPage], [GoalsPage] : entry forms and lists with delete
//   - [CoachPage] : AI advice with a loading state
//   - [MotivationPage] : video generation with rotating status messages
//   - [SettingsPage] : theme, export, logout, and confirm-then-purge
//
// Every change goes through [store.Store.Mutate], so the screen always renders the latest persisted document.
// Long calls run as [tea.Cmd] values; video progress flows through a channel from [tasks.VideoWorkflow].
//
// Keys: tab/shift+tab or 1-7 switch pages, a adds, d deletes, esc cancels, ctrl+c quits.
package ui
