package deepface

// RepresentRequest is the request body for POST /represent
type RepresentRequest struct {
	Img              string `json:"img"`
	Model            string `json:"model_name"`
	Detector         string `json:"detector_backend"`
	EnforceDetection bool   `json:"enforce_detection"`
}

// RepresentResult is one embedding result in the response
type RepresentResult struct {
	Embedding  []float32  `json:"embedding"`
	FacialArea FacialArea `json:"facial_area"`
}

// FacialArea is the detected face area in pixels
type FacialArea struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// RepresentResponse is the response body for POST /represent
type RepresentResponse struct {
	Results []RepresentResult `json:"results"`
	Error   string            `json:"error,omitempty"`
}
