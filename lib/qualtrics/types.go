package qualtrics

// response envelopes for the v3 API

type meta struct {
	HttpStatus string `json:"httpStatus"`
	Error      *struct {
		ErrorMessage string `json:"errorMessage"`
		ErrorCode    string `json:"errorCode"`
	} `json:"error"`
}

type Survey struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
	LastModified string `json:"lastModified"`
}

type listSurveysResponse struct {
	Result struct {
		Elements []Survey `json:"elements"`
		NextPage string   `json:"nextPage"`
	} `json:"result"`
	Meta meta `json:"meta"`
}

type question struct {
	QuestionName string `json:"questionName"`
	QuestionText string `json:"questionText"`
}

type getSurveyResponse struct {
	Result struct {
		Id        string              `json:"id"`
		Name      string              `json:"name"`
		Questions map[string]question `json:"questions"`
	} `json:"result"`
	Meta meta `json:"meta"`
}

// Question is one survey question with its label stripped to plain
// text, since the platform stores question text as html.
type Question struct {
	Id    string
	Name  string
	Label string
}

type startExportResponse struct {
	Result struct {
		ProgressId string `json:"progressId"`
	} `json:"result"`
	Meta meta `json:"meta"`
}

type exportProgressResponse struct {
	Result struct {
		PercentComplete float64 `json:"percentComplete"`
		Status          string  `json:"status"`
		FileId          string  `json:"fileId"`
	} `json:"result"`
	Meta meta `json:"meta"`
}
