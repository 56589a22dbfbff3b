package planner

// Profile is the slice of the study profile the plan generator needs.
// Fields may be absent or junk; BuildPrompt applies the defaults.
type Profile struct {
	TargetExam string  `json:"target_exam"`
	DailyHours float64 `json:"daily_hours"`
}

// TaskDraft is one unsaved candidate study task. Drafts are returned to the
// caller; persisting them is the tasks package's job.
type TaskDraft struct {
	Title           string `json:"title"`
	Subject         string `json:"subject"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Result is the outcome of normalizing model output: either a validated task
// list (OK) or an explicit empty result. There is no error case; every
// expected failure mode collapses to Empty.
type Result struct {
	Tasks []TaskDraft
	OK    bool
}

func Ok(tasks []TaskDraft) Result { return Result{Tasks: tasks, OK: true} }

func Empty() Result { return Result{} }
