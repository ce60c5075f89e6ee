package kv

type getInput struct {
	Key string `path:"key" minLength:"1" maxLength:"256" pattern:"^[A-Za-z0-9_.:-]+$" doc:"Entry key"`
}

type getOutput struct {
	Body entryResponse
}

type entryResponse struct {
	Key   string `json:"key" example:"record_keys" doc:"Entry key"`
	Value []byte `json:"value" doc:"Stored bytes, base64 encoded"`
}

type putInput struct {
	Key  string `path:"key" minLength:"1" maxLength:"256" pattern:"^[A-Za-z0-9_.:-]+$" doc:"Entry key"`
	Body putRequest
}

type putRequest struct {
	Value []byte `json:"value" doc:"Bytes to store, base64 encoded"`
}

type putOutput struct {
	Body putResponse
}

type putResponse struct {
	Key    string `json:"key" example:"record_keys"`
	Status string `json:"status" example:"stored"`
}
