// Package providers defines the provider capability boundary: the stable
// provider identities used for tie-breaking, the provider-agnostic request
// and response shapes, the error taxonomy, and the base HTTP adapter that
// the per-vendor clients (openai, anthropic, gemini) build on.
//
// A Provider never returns a Go error for ordinary call failures. Network
// errors, non-2xx responses, and malformed payloads are encoded in the
// returned Response (Success=false, Err set) so that the race orchestrator
// can treat every settlement uniformly. Only programming-error-class
// conditions (panics inside an adapter) escape, and the orchestrator
// converts those to generic failures as well.
//
// Example usage:
//
//	p, err := openai.New(providers.Config{
//	    Identity: providers.OpenAI,
//	    APIKey:   os.Getenv("OPENAI_API_KEY"),
//	    Model:    "gpt-4o-mini",
//	})
//	if err != nil {
//	    return err
//	}
//	resp := p.Generate(ctx, "Summarize the quarter.", providers.Options{"temperature": 0.2})
//	if !resp.Success {
//	    log.Printf("call failed: %s", resp.Err.Message)
//	}
package providers
