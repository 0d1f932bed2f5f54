package library

import "strconv"

// Kind is the protocol defined category of an event.
type Kind uint32

const (
	Metadata               Kind = 0
	TextNote               Kind = 1
	RecommendRelay         Kind = 2
	ContactList            Kind = 3
	EncryptedDirectMessage Kind = 4
	EventDeletion          Kind = 5
	Repost                 Kind = 6
	Reaction               Kind = 7
	BadgeAward             Kind = 8
	ChannelCreation        Kind = 40
	ChannelMetadata        Kind = 41
	ChannelMessage         Kind = 42
	ChannelHideMessage     Kind = 43
	ChannelMuteUser        Kind = 44
	Reporting              Kind = 1984
	ZapRequest             Kind = 9734
	Zap                    Kind = 9735
	RelayList              Kind = 10002
	Auth                   Kind = 22242
	LongFormContent        Kind = 30023
)

var kindNames = map[Kind]string{
	Metadata:               "Metadata",
	TextNote:               "TextNote",
	RecommendRelay:         "RecommendRelay",
	ContactList:            "ContactList",
	EncryptedDirectMessage: "EncryptedDirectMessage",
	EventDeletion:          "EventDeletion",
	Repost:                 "Repost",
	Reaction:               "Reaction",
	BadgeAward:             "BadgeAward",
	ChannelCreation:        "ChannelCreation",
	ChannelMetadata:        "ChannelMetadata",
	ChannelMessage:         "ChannelMessage",
	ChannelHideMessage:     "ChannelHideMessage",
	ChannelMuteUser:        "ChannelMuteUser",
	Reporting:              "Reporting",
	ZapRequest:             "ZapRequest",
	Zap:                    "Zap",
	RelayList:              "RelayList",
	Auth:                   "Auth",
	LongFormContent:        "LongFormContent",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind" + strconv.FormatUint(uint64(k), 10)
}

// IsReplaceable reports whether only the latest event of this kind per author is kept.
func (k Kind) IsReplaceable() bool {
	return k == Metadata || k == ContactList || (k >= 10000 && k < 20000)
}

func (k Kind) IsEphemeral() bool {
	return k >= 20000 && k < 30000
}

func (k Kind) IsParameterizedReplaceable() bool {
	return k >= 30000 && k < 40000
}

// IsFeedDisplayable reports whether events of this kind show up in a feed and
// so take part in reply, mention and hashtag interpretation.
func (k Kind) IsFeedDisplayable() bool {
	switch k {
	case TextNote, Repost, ChannelMessage, LongFormContent:
		return true
	}
	return false
}
