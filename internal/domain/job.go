package domain

// JobState represents the client-side lifecycle of a generation job.
// Values include JobStateIdle, JobStateSubmitted, JobStatePolling,
// JobStateCompleted, JobStateFailed, and JobStateLost.
type JobState string

const (
	// JobStateIdle means no generation job exists.
	JobStateIdle JobState = "idle"

	// JobStateSubmitted means the job id is known but no status has
	// been observed yet.
	JobStateSubmitted JobState = "submitted"

	// JobStatePolling means the last observed status was non-terminal.
	JobStatePolling JobState = "polling"

	// JobStateCompleted means generation succeeded (terminal).
	JobStateCompleted JobState = "completed"

	// JobStateFailed means generation failed server-side (terminal).
	JobStateFailed JobState = "failed"

	// JobStateLost means polling itself errored, e.g. the id expired
	// and the backend answered 404 (terminal). Distinct from failed:
	// the job's real outcome is unknown.
	JobStateLost JobState = "lost"
)

// Terminal reports whether the state permits no further transitions.
func (s JobState) Terminal() bool {
	return s == JobStateCompleted || s == JobStateFailed || s == JobStateLost
}

// GenerationJob is the ephemeral record of one in-flight meme generation.
// It never joins the gallery collection; on completion the feed cache is
// invalidated and the meme arrives through a normal page fetch.
type GenerationJob struct {
	ID       string     `json:"id"`
	Status   MemeStatus `json:"status"`
	ImageURL string     `json:"imageUrl,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// GenerateRequest is the payload accepted by the backend's generate
// endpoint.
type GenerateRequest struct {
	Prompt   string `json:"prompt"`
	Style    string `json:"style,omitempty"`
	IsPublic bool   `json:"is_public"`
}
