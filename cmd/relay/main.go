// Relay races a prompt across multiple LLM providers and returns the
// first successful response, normalized into a stable report shape.
//
// Usage:
//
//	# Start the API server with default configuration
//	relay run
//
//	# Start with a custom configuration file
//	relay run --config /path/to/config.yaml
//
//	# Race a single prompt from the command line
//	relay race "Summarize the Q3 retrospective"
//
//	# Check provider health
//	relay health
//
//	# Validate a configuration file
//	relay validate --config config.yaml
//
//	# Show version information
//	relay version
package main

func main() {
	Execute()
}
