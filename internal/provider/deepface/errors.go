package deepface

import "errors"

var (
	// ErrDeepFaceUnavailable wraps the last transport or server failure
	// once retries are exhausted.
	ErrDeepFaceUnavailable = errors.New("deepface service unavailable")

	// ErrInvalidResponse marks a 2xx response whose body did not parse.
	ErrInvalidResponse = errors.New("invalid response from deepface")

	// ErrNoFaceInResponse marks a well-formed response with an empty
	// result list. With detection enforcement off the server may still
	// return nothing for a degenerate image.
	ErrNoFaceInResponse = errors.New("no face data in deepface response")
)
