package pubsub

// Channels used by the search system. Channels are "{domain}:{event}";
// the Kafka driver maps them to topics by replacing ':' with '-'.
const (
	ChannelSearchPerformed = "search:performed"
)

// KnownChannels lists the channels whose Kafka topics are created at startup.
var KnownChannels = []string{ChannelSearchPerformed}

// Event types.
const (
	EventSearchPerformed = "search.performed"
)

// SearchPerformedPayload is published whenever a first page of results is
// served for a non-empty query.
type SearchPerformedPayload struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	Results  int    `json:"results"`
	Total    int    `json:"total"`
}
