package domain

// Detection is one detected object in a frame. Label is the canonical
// equipment label after mapping; RawLabel is what the model returned.
// Box is [x1, y1, x2, y2] in pixel coordinates.
type Detection struct {
	Box        [4]float64 `json:"box"`
	Label      string     `json:"label"`
	RawLabel   string     `json:"raw_label"`
	ClassID    int        `json:"class_id"`
	Confidence float64    `json:"confidence"`
}

// ComplianceVerdict is the per-frame PPE decision. IsSafe holds iff every
// required label appears among the canonicalized detections; Missing is the
// exact set difference required - detected, sorted for determinism.
type ComplianceVerdict struct {
	IsSafe     bool        `json:"is_safe"`
	Detections []Detection `json:"detections"`
	Missing    []string    `json:"missing"`
}
