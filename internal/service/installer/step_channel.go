package installer

// NewChannelStep allows selection of the transports to enable
func NewChannelStep() Step {
	return &choiceStep{
		title:   "Select how users reach the assistant:",
		key:     keyChannel,
		choices: []string{channelHTTP, channelTelegram, channelBoth},
	}
}
