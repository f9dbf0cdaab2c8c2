package reddit

import (
	"github.com/reddit-ranger/ranger/detect"
)

// wire shapes for the public JSON API; only the fields the engine consumes

type aboutResponse struct {
	Data struct {
		Name         string   `json:"name"`
		CreatedUTC   *float64 `json:"created_utc"`
		LinkKarma    int64    `json:"link_karma"`
		CommentKarma int64    `json:"comment_karma"`
		IsSuspended  bool     `json:"is_suspended"`
	} `json:"data"`
}

type listingResponse struct {
	Data struct {
		Children []thing `json:"children"`
	} `json:"data"`
}

// thing is the API's tagged variant: kind "t1" is a comment, "t3" a link
// submission. Field presence differs by kind, hence all the pointers.
type thing struct {
	Kind string `json:"kind"`
	Data struct {
		CreatedUTC *float64 `json:"created_utc"`
		Subreddit  string   `json:"subreddit"`
		Score      *int64   `json:"score"`
		Body       string   `json:"body"`     // comments
		Title      string   `json:"title"`    // submissions
		SelfText   string   `json:"selftext"` // submissions
		Permalink  string   `json:"permalink"`
	} `json:"data"`
}

func thingsToActivities(things []thing) []detect.RawActivity {
	out := make([]detect.RawActivity, 0, len(things))
	for _, t := range things {
		act := detect.RawActivity{
			Subreddit: t.Data.Subreddit,
			Score:     t.Data.Score,
			Permalink: t.Data.Permalink,
		}
		if t.Data.CreatedUTC != nil {
			act.CreatedAt = *t.Data.CreatedUTC
		}
		switch t.Kind {
		case "t3":
			act.Kind = string(detect.ActivityPost)
			act.Body = t.Data.Title
			if t.Data.SelfText != "" {
				act.Body = t.Data.Title + "\n" + t.Data.SelfText
			}
		default:
			act.Kind = string(detect.ActivityComment)
			act.Body = t.Data.Body
		}
		out = append(out, act)
	}
	return out
}
