package planner

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// PlanHandler is the AI-plan endpoint: build prompt, call the completion
// service, normalize. Its contract to the client is fixed: POST in, one
// 200 response out, body {"planText": "<json array>"} where the array is
// "[]" for every internal failure. Upstream status codes, bodies and raw
// model text go to the log, never to the caller.
func PlanHandler(ai Completer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusMethodNotAllowed)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Method not allowed"})
			return
		}

		var body struct {
			Profile Profile `json:"profile"`
			Today   string  `json:"today"` // accepted, unused
		}
		// A malformed body still gets a plan: zero profile, default budget.
		_ = json.NewDecoder(r.Body).Decode(&body)

		prompt := BuildPrompt(body.Profile)

		raw, err := ai.Complete(r.Context(), prompt)
		if err != nil {
			if ue, ok := err.(*UpstreamError); ok {
				logger.Warn("completion service error",
					zap.Int("status", ue.Status),
					zap.String("body", truncate(ue.Body, 2048)))
			} else {
				logger.Warn("completion call failed", zap.Error(err))
			}
			writePlan(w, nil)
			return
		}

		res := Normalize(raw)
		if !res.OK {
			logger.Warn("model output not normalizable",
				zap.String("raw", truncate(raw, 2048)))
			writePlan(w, nil)
			return
		}

		writePlan(w, res.Tasks)
	}
}

// writePlan emits the single success shape. nil tasks means the explicit
// empty plan.
func writePlan(w http.ResponseWriter, tasks []TaskDraft) {
	planText := "[]"
	if len(tasks) > 0 {
		if b, err := json.Marshal(tasks); err == nil {
			planText = string(b)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"planText": planText})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
