package scheduler

// Plan is the ordered set of tasks to execute for one request. Every task in
// Order appears after all of its planned prerequisites.
type Plan struct {
	// Target is the task whose outcome decides the run.
	Target string
	// Order is a depth-first, dependencies-first order of the planned tasks.
	Order []string

	planned    map[string]struct{}
	prereqs    map[string][]string
	dependents map[string][]string
}

func newPlan(target string) *Plan {
	return &Plan{
		Target:     target,
		planned:    make(map[string]struct{}),
		prereqs:    make(map[string][]string),
		dependents: make(map[string][]string),
	}
}

// Len returns the number of planned tasks.
func (p *Plan) Len() int {
	return len(p.Order)
}

// Contains reports whether the task is part of the plan.
func (p *Plan) Contains(task string) bool {
	_, ok := p.planned[task]
	return ok
}

// Prerequisites returns the planned tasks that must succeed before task may
// start. This includes runs-before constraints introduced by hooks.
func (p *Plan) Prerequisites(task string) []string {
	return p.prereqs[task]
}

// Dependents returns the planned tasks waiting on task.
func (p *Plan) Dependents(task string) []string {
	return p.dependents[task]
}

func (p *Plan) add(task string) {
	p.planned[task] = struct{}{}
	p.Order = append(p.Order, task)
}

func (p *Plan) link(prereq, task string) {
	for _, existing := range p.prereqs[task] {
		if existing == prereq {
			return
		}
	}
	p.prereqs[task] = append(p.prereqs[task], prereq)
	p.dependents[prereq] = append(p.dependents[prereq], task)
}
