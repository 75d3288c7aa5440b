// Package compliance holds the side-effect free rules of the compliance
// engine: calendar arithmetic, period cutting, block distribution,
// milestone derivation, health scoring, governance aggregation and sweep
// planning. Persistence lives in data/aggregates and services.
package compliance
