package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/epidemic"
)

type Config struct {
	Beta       float64
	Gamma      float64
	Initial    epidemic.Compartments
	Integrator string
	Dt         float64
	Duration   float64
}

type Experiment struct {
	cfg       Config
	model     *epidemic.Model
	simulator *dynamo.Simulator
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the model and simulator. It fails on out-of-domain
// parameters or an unknown integrator.
func (e *Experiment) Setup(r *Registry) error {
	model, err := epidemic.FromInitial(e.cfg.Beta, e.cfg.Gamma, e.cfg.Initial)
	if err != nil {
		return err
	}
	integ, err := r.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	e.model = model
	e.simulator = dynamo.New(model, integ)
	for _, m := range r.DefaultMetrics(model.Params().Population) {
		e.simulator.AddMetric(m)
	}
	return nil
}

type Outcome struct {
	Model      *epidemic.Model
	Trajectory epidemic.Trajectory
	Result     *dynamo.Result
}

func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := dynamo.Config{
		Dt:       e.cfg.Dt,
		Duration: e.cfg.Duration,
	}

	res, err := e.simulator.Run(ctx, e.cfg.Initial.Vector(), simCfg)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Model:      e.model,
		Trajectory: epidemic.FromResult(res),
		Result:     res,
	}, nil
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *dynamo.Simulator {
	return e.simulator
}
