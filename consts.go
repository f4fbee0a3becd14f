package journal

const (
	defaultFileName = "log.json"
	defaultTopic    = "general"
	panicTopic      = "panic"
	oldSuffix       = ".old"
	emptyString     = ""
)

const (
	errMsgNilConfig     = "Pipeline config is nil."
	errMsgConfigInvalid = "Pipeline configuration is invalid."
	errMsgNoPayload     = "no string payload data"
	errMsgNoFile        = "no file data"
)
