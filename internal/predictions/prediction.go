package predictions

// Message accompanies every successful prediction.
const Message = "AI diagnosis complete"

// Request is the body of POST /predict. Unknown fields are ignored.
type Request struct {
	Symptoms []string `json:"symptoms"`
}

// Result is the body of a successful prediction.
type Result struct {
	PredictedDisease string   `json:"predicted_disease"`
	InputSymptoms    []string `json:"input_symptoms"`
	Message          string   `json:"message"`
}
