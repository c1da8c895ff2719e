package model

// Package model defines domain data structures shared across the app: download
// requests and results, extractor metadata, playlist entities and status enums.
