package notes

type Category string

const (
	CategoryCall       Category = "call"
	CategoryEmail      Category = "email"
	CategoryMeeting    Category = "meeting"
	CategorySMS        Category = "sms"
	CategoryVisit      Category = "visit"
	CategoryComplaint  Category = "complaint"
	CategoryCollection Category = "collection"
	CategoryGeneral    Category = "general"
)

type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

type BodyFormat string

const (
	BodyFormatText BodyFormat = "text"
	BodyFormatRich BodyFormat = "rich"
)

// Status solo admite una transición: active -> amended.
type Status string

const (
	StatusActive  Status = "active"
	StatusAmended Status = "amended"
)
