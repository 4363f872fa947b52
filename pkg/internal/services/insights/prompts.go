package insights

var discussionPrompts = []string{
	"What might be behind this signal?",
	"Is this something we can influence, or is it coming from outside the team?",
	"Has anyone noticed this shifting recently?",
	"What would 'slightly better' look like here?",
}

var experiments = []string{
	"Try one small change for the next two weeks, then check again.",
	"Have one person own this topic and report back next round.",
	"Schedule a 15-minute chat to dig deeper before the next temperature check.",
	"Write down one concrete thing the team could start, stop, or keep doing.",
}

func DiscussionPrompts() []string {
	return append([]string(nil), discussionPrompts...)
}

func Experiments() []string {
	return append([]string(nil), experiments...)
}
