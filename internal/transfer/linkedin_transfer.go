package transfer

type LinkedinUserInfo struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LinkedinPostResponse struct {
	ID string `json:"id"`
}

type LinkedinErrorResponse struct {
	Message        string `json:"message"`
	ServiceErrCode int    `json:"serviceErrorCode"`
	Status         int    `json:"status"`
}
