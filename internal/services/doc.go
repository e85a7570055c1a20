// Package services defines the [Service] interface for music providers and implements it for Spotify and YouTube Music.
//
// # Service Interface
//
// All music providers implement a common abstraction, enabling playlist operations to work uniformly across providers.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 for authentication with automatic token refresh.
//
// The [oauth2.Client] automatically refreshes expired tokens using the refresh token,
// and [refreshableTokenSource] reports rotated tokens so callers can persist them.
//
// # YouTube Music Implementation
//
// [YTMusicService] shells out to yt-dlp for search and playlist enumeration.
//
// Searches use yt-dlp's ytsearchN: pseudo-URLs with flat playlist extraction,
// so no YouTube API key or OAuth session is required. Cookies extracted from a
// configured browser stand in for a session when content is gated.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrTokenExpired] : OAuth token expired, reauthorization needed
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrPlaylistNotFound] : Playlist ID not found
//   - [shared.ErrToolNotFound] : yt-dlp binary missing
//
// # API Mappings
//
// Both services convert provider-specific responses to [Track] and [Playlist] DTOs:
//   - Spotify: Maps [SpotifyTrack] → [Track] with ISRC from external_ids and album art from images
//   - YouTube: Maps yt-dlp JSON entries → [Candidate] with uploader and thumbnail fallbacks
//
// Candidate ranking against a source track is handled by the matcher package.
package services
