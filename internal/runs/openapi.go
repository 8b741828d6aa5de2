package runs

import "github.com/JaimeStill/prognosis/pkg/openapi"

var schemas = map[string]*openapi.Schema{
	"Run": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":           {Type: "string", Format: "uuid"},
			"artifact_key": {Type: "string"},
			"dataset_path": {Type: "string"},
			"label":        {Type: "string", Description: "Label column the model predicts"},
			"features":     {Type: "integer", Description: "Symptom columns in the schema"},
			"classes":      {Type: "integer", Description: "Distinct disease labels"},
			"train_rows":   {Type: "integer"},
			"test_rows":    {Type: "integer"},
			"accuracy":     {Type: "number", Description: "Held-out accuracy; null when no rows were held out"},
			"seed":         {Type: "integer"},
			"estimators":   {Type: "integer"},
			"size_bytes":   {Type: "integer"},
			"trained_at":   {Type: "string", Format: "date-time"},
			"recorded_at":  {Type: "string", Format: "date-time"},
		},
	},
	"RunPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        openapi.ArrayOf(openapi.SchemaRef("Run")),
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
			"has_next":    {Type: "boolean"},
		},
	},
	"RunSearch": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"page":           {Type: "integer"},
			"page_size":      {Type: "integer"},
			"search":         {Type: "string"},
			"sort":           {Type: "string", Example: "-TrainedAt"},
			"label":          {Type: "string"},
			"artifact_key":   {Type: "string"},
			"dataset_path":   {Type: "string"},
			"min_accuracy":   {Type: "number"},
			"trained_after":  {Type: "string", Format: "date-time"},
			"trained_before": {Type: "string", Format: "date-time"},
		},
	},
}

var listOp = &openapi.Operation{
	OperationID: "listRuns",
	Summary:     "List training runs",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("search", "string", "Match against artifact key, dataset path, or label", false),
		openapi.QueryParam("sort", "string", "Sort fields, prefix with - for descending", false),
		openapi.QueryParam("label", "string", "Filter by label column", false),
		openapi.QueryParam("artifact_key", "string", "Filter by artifact key", false),
		openapi.QueryParam("dataset_path", "string", "Filter by dataset path", false),
		openapi.QueryParam("min_accuracy", "number", "Minimum held-out accuracy", false),
		openapi.QueryParam("trained_after", "string", "RFC 3339 lower bound on trained_at", false),
		openapi.QueryParam("trained_before", "string", "RFC 3339 upper bound on trained_at", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Page of runs", "RunPage"),
		500: openapi.ResponseRef("InternalError"),
	},
}

var findOp = &openapi.Operation{
	OperationID: "findRun",
	Summary:     "Find a training run",
	Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Run ID")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Run", "Run"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var searchOp = &openapi.Operation{
	OperationID: "searchRuns",
	Summary:     "Search training runs",
	RequestBody: openapi.RequestBodyJSON("RunSearch", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Page of runs", "RunPage"),
		400: openapi.ResponseRef("BadRequest"),
		500: openapi.ResponseRef("InternalError"),
	},
}
