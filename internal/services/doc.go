// Package services talks to the hosted generative API used by the FitHub coach and motivation studio.
//
// # Gemini Client
//
// [GeminiClient] wraps the REST surface of the generative language API:
//   - [GeminiClient.GenerateText] : one generateContent call returning the concatenated text parts
//   - [GeminiClient.GenerateVideo] : starts a predictLongRunning job and returns its [VideoOperation]
//   - [GeminiClient.PollVideo] : re-fetches an operation by name
//   - [GeminiClient.DownloadVideo] : streams a generated asset, appending the credential as the key query parameter
//
// Every request waits on a client-side [rate.Limiter] so bursts of polling or advice requests stay under
// provider quotas. Requests authenticate with the x-goog-api-key header, or with an OAuth2 bearer token
// when one is configured.
//
// # Credentials
//
// The client never stores credentials itself. A [Credentials] value reports whether a key is configured
// and can prompt for one: [StaticCredentials] reads config or the environment, [PromptCredentials] asks
// on a terminal.
//
// # Coach
//
// [Coach] turns recent workouts, foods, and goals into a prompt with [BuildAdvicePrompt] and returns plain
// text. Provider failures never escape [Coach.Advice]; they become one of two fixed fallback messages.
//
// # Error Handling
//
// Non-2xx responses wrap [shared.ErrAPIRequest] with the status and provider message.
// A missing key wraps [shared.ErrMissingCredentials].
package services
