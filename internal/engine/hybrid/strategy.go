// internal/engine/hybrid/strategy.go
package hybrid

// Strategy is the engine that served the current page
type Strategy int

const (
	// StrategyStatic serves the page from a plain HTTP response
	StrategyStatic Strategy = iota

	// StrategyDynamic serves the page from the browser
	StrategyDynamic
)

// String returns the string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case StrategyStatic:
		return "Static"
	case StrategyDynamic:
		return "Dynamic"
	default:
		return "Unknown"
	}
}

// DetermineStrategy decides which engine should serve a page whose static
// response is markup
func DetermineStrategy(markup string) Strategy {
	if IsBlocked(markup) || NeedsJavaScript(markup) {
		return StrategyDynamic
	}
	return StrategyStatic
}
