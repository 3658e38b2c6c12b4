package constants

// Eligibility reasons shown to singers as-is.
const (
	ReasonDeadlinePassed    = "Registration deadline has passed"
	ReasonEventFull         = "Event is full"
	ReasonAlreadyRegistered = "You are already registered for this event"
	ReasonEventClosed       = "Event is not open for registration"
)

const (
	MsgAlreadyInterested = "You have already registered your interest for this event"
	MsgUsernameTaken     = "Username already taken"
	MsgEmailTaken        = "User already exists with this email"
	MsgIdentityTaken     = "User already exists for this identity"
	MsgAlreadyRated      = "You have already rated this user for this event"
	MsgNotEventHost      = "Only the event host can do this"
	MsgNotOwner          = "You do not own this resource"
	MsgInternal          = "Something went wrong. Please try again later"
)
