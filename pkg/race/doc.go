// Package race implements the concurrency engine at the heart of relay:
// one prompt is dispatched to every configured provider at once, the first
// usable success wins, and the rest are cancelled.
//
// The orchestrator makes the non-determinism of concurrent network calls
// deterministic at the margins. Settlement order is observed as it happens,
// but when several providers succeed within the same decision window the
// winner is chosen by the configured identity priority, not by arrival
// timing. Partial failure, universal failure, deadline expiry, and caller
// abort each map to a documented terminal state; a caller always receives
// a Result and never an error for provider-level conditions.
//
// Example usage:
//
//	orch, err := race.New(race.Config{
//	    Providers: []providers.Provider{oai, claude, gem},
//	    Priority:  providers.DefaultPriority(),
//	    Deadline:  30 * time.Second,
//	})
//	if err != nil {
//	    return err
//	}
//	result := orch.Race(ctx, prompt, providers.Options{"temperature": 0.2})
//	if result.Status == race.StatusCompleted {
//	    fmt.Println(result.Winner.Content)
//	}
package race
