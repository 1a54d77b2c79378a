package extract

import "log/slog"

// Strategy is a self-contained heuristic for one document template.
// Applicable must stay cheap (marker checks only); Extract does the
// field-by-field work and scores its own output. Strategies never see
// each other's results.
type Strategy interface {
	Name() string
	Applicable(text string) bool
	Extract(text string) Result
}

// Chain consults strategies in registration order; the first one whose
// applicability check passes is used exclusively. New vendor templates are
// added by registering another Strategy, never by touching existing ones.
type Chain struct {
	strategies []Strategy
	logger     *slog.Logger
}

func NewChain(logger *slog.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{strategies: strategies, logger: logger}
}

// DefaultChain wires the built-in strategies, most specific first.
func DefaultChain(logger *slog.Logger) *Chain {
	return NewChain(logger,
		&POFormStrategy{},
		&ServiceAgreementStrategy{},
		&GenericStrategy{},
	)
}

// Run picks the first applicable strategy and returns its result. When no
// strategy claims the text, the NONE sentinel (confidence 0, all fields nil)
// is returned; that is not an error.
func (c *Chain) Run(text string) Result {
	for _, s := range c.strategies {
		if !s.Applicable(text) {
			continue
		}
		res := s.Extract(text)
		res.Strategy = s.Name()
		c.logger.Debug("extraction strategy matched",
			"strategy", s.Name(),
			"confidence", res.Confidence,
			"po_number", res.Fields.PONumber,
			"vendor", res.Fields.VendorName,
		)
		return res
	}
	c.logger.Debug("no extraction strategy matched")
	return NoneResult()
}
