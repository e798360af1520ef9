// Package models defines domain entities and persistence interfaces for souffle.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): structs mirroring the wellness backend's JSON
//   - [Exercise] : breathing exercise with phase durations
//   - [HealthArticle] : health information content
//   - [User], [Preferences] : account profile
//   - [ProfileUpdate], [PreferencesUpdate], [NewAccount] : profile edits and admin account creation
//   - [Meditation], [MeditationSession] : guided meditations and their sessions
//   - [HistoryEntry] : exercise executions recorded by the backend
//
// 2. Persistent Entities: SQLite-backed models with lifecycle management
//   - [PracticeRecord] : one finished breathing session in the local log
//   - [CachedExercise] : exercise kept for offline practice
//
// Persistent entities implement the Model interface providing IDs, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
