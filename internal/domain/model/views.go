package model

import "time"

// ItemLink is one fetchable item of a completed job.
type ItemLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ResultView is the follow-up action offered once a job completes. Exactly one
// item yields a direct fetch; more than one yields an archive fetch plus a
// per-item list; zero items yields no affordance at all.
type ResultView struct {
	Items []ItemLink `json:"items"`
	// SingleURL is set only when the job produced exactly one item.
	SingleURL string `json:"single_url,omitempty"`
	// ArchiveURL is set only when the job produced more than one item.
	ArchiveURL string `json:"archive_url,omitempty"`
}

// JobView is the plain-data projection of a session handed to the rendering
// layer after every state change.
type JobView struct {
	FlowID     string      `json:"flow_id"`
	SessionID  string      `json:"session_id"`
	Ref        string      `json:"ref"`
	Mode       string      `json:"mode"`
	Phase      Phase       `json:"phase"`
	Percentage int         `json:"percentage"`
	OutputLog  string      `json:"output_log,omitempty"`
	FailReason string      `json:"fail_reason,omitempty"`
	Result     *ResultView `json:"result,omitempty"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// View snapshots the session for rendering. The copy carries no references
// back into the session, so renderers may hold it across callbacks.
func (s *DownloadSession) View(flowID string) JobView {
	return JobView{
		FlowID:     flowID,
		SessionID:  s.ID,
		Ref:        s.Ref,
		Mode:       string(s.Mode),
		Phase:      s.Phase,
		Percentage: s.Percentage,
		OutputLog:  s.OutputLog,
		FailReason: s.FailReason,
		UpdatedAt:  s.UpdatedAt,
	}
}

// TrackHit is one search result offered for a search-triggered download.
type TrackHit struct {
	Name       string
	Artists    string
	ImageURL   string
	SpotifyURL string
}
