package transfer

// DTOs for the Facebook Graph API, shared by the Facebook and Instagram
// flows.

type GraphTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type GraphProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
}

type GraphPage struct {
	ID                       string        `json:"id"`
	Name                     string        `json:"name"`
	AccessToken              string        `json:"access_token"`
	InstagramBusinessAccount *GraphProfile `json:"instagram_business_account"`
}

type GraphPagesResponse struct {
	Data []GraphPage `json:"data"`
}

type GraphIDResponse struct {
	ID string `json:"id"`
}

type GraphPermalinkResponse struct {
	Permalink string `json:"permalink"`
}

type InstagramUserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type GraphErrorResponse struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FbtraceID string `json:"fbtrace_id"`
	} `json:"error"`
}
