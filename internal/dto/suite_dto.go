package dto

type CreateSuiteRequest struct {
	Name string `json:"name"`
}

type RenameRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type IDRequest struct {
	ID string `json:"id"`
}
