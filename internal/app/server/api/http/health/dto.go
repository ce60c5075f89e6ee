package health

type Input struct{}

type Output struct {
	Body Response
}

// Response reports liveness and how long the storage ping took.
type Response struct {
	Status    string `json:"status" example:"OK" doc:"Service status"`
	Storage   string `json:"storage" example:"ok" doc:"Storage backend reachability"`
	LatencyMS int64  `json:"latency_ms" example:"2" doc:"Storage ping round-trip in milliseconds"`
}
