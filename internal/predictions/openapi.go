package predictions

import "github.com/JaimeStill/prognosis/pkg/openapi"

var schemas = map[string]*openapi.Schema{
	"PredictRequest": {
		Type:     "object",
		Required: []string{"symptoms"},
		Properties: map[string]*openapi.Schema{
			"symptoms": {
				Type:        "array",
				Description: "Reported symptom names. Case and surrounding whitespace are ignored; spaces match underscores.",
				Items:       &openapi.Schema{Type: "string"},
				Example:     []string{"itching", "Skin Rash", "fatigue"},
			},
		},
	},
	"PredictResult": {
		Type:     "object",
		Required: []string{"predicted_disease", "input_symptoms", "message"},
		Properties: map[string]*openapi.Schema{
			"predicted_disease": {Type: "string", Description: "Predicted disease label"},
			"input_symptoms": {
				Type:        "array",
				Description: "Normalized symptom names in request order",
				Items:       &openapi.Schema{Type: "string"},
			},
			"message": {Type: "string", Example: Message},
		},
	},
}

var predictOp = &openapi.Operation{
	OperationID: "predictDisease",
	Summary:     "Predict a disease",
	Description: "Encodes the reported symptoms against the model schema and returns the predicted disease. Unknown symptom names are ignored.",
	RequestBody: openapi.RequestBodyJSON("PredictRequest", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Prediction", "PredictResult"),
		400: openapi.ResponseRef("BadRequest"),
		413: openapi.ResponseRef("TooLarge"),
		500: openapi.ResponseRef("InternalError"),
	},
}
