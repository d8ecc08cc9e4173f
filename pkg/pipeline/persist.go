package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledgervox/ledgervox/pkg/resolve"
	"github.com/ledgervox/ledgervox/pkg/task"
	"github.com/ledgervox/ledgervox/pkg/types"
)

// resolveReferences resolves the spoken entity references of the active
// task against the stored records. Found references are canonicalized in
// place; every other outcome yields a spoken follow-up prompt. Resolution
// never mutates storage.
func (p *Pipeline) resolveReferences(ctx context.Context, t task.Task) []string {
	var prompts []string
	fields := t.Fields()

	canonicalize := func(key, name string) {
		if name != "" && name != fields[key] {
			if err := t.Apply(map[string]string{key: name}); err != nil {
				pipelineLog.Warnf("failed to canonicalize %s: %v", key, err)
			}
		}
	}

	// Each reference resolves on its own: a listing failure for one pool
	// must not skip the others.
	resolveVendor := func() {
		q := fields[task.FieldVendor]
		if q == "" {
			return
		}
		pool, err := p.st.ActiveVendors(ctx)
		if err != nil {
			pipelineLog.Warnf("vendor listing failed: %v", err)
			return
		}
		name, prompt := resolveNamed(p.resolverCfg, q, pool, "vendor", true)
		canonicalize(task.FieldVendor, name)
		if prompt != "" {
			prompts = append(prompts, prompt)
		}
	}
	resolveLocation := func() {
		q := fields[task.FieldLocation]
		if q == "" {
			return
		}
		pool, err := p.st.ActiveLocations(ctx)
		if err != nil {
			pipelineLog.Warnf("location listing failed: %v", err)
			return
		}
		name, prompt := resolveNamed(p.resolverCfg, q, pool, "location", true)
		canonicalize(task.FieldLocation, name)
		if prompt != "" {
			prompts = append(prompts, prompt)
		}
	}
	resolveEquipment := func() {
		q := fields[task.FieldEquipment]
		if q == "" {
			return
		}
		pool, err := p.st.ActiveEquipment(ctx)
		if err != nil {
			pipelineLog.Warnf("equipment listing failed: %v", err)
			return
		}
		name, prompt := resolveNamed(p.resolverCfg, q, pool, "equipment", false)
		canonicalize(task.FieldEquipment, name)
		if prompt != "" {
			prompts = append(prompts, prompt)
		}
	}

	switch t.Kind() {
	case task.KindEquipment:
		resolveVendor()
		resolveLocation()
	case task.KindMaintenance:
		resolveEquipment()
		resolveVendor()
	}

	return prompts
}

// resolveNamed resolves one spoken reference and renders the follow-up
// prompt for non-Found outcomes. creatable controls the NotFound wording:
// vendors and locations are created inline on save, equipment is not.
func resolveNamed[T types.Named](cfg resolve.Config, query string, pool []T, label string, creatable bool) (canonical, prompt string) {
	r := resolve.NewResolver[T](cfg)
	res := r.Resolve(query, pool)

	switch res.Outcome {
	case resolve.OutcomeFound:
		return res.Record.RecordName(), ""

	case resolve.OutcomeNeedsConfirmation:
		return "", fmt.Sprintf("Did you mean the %s %q? If so, please repeat the exact name.", label, res.Record.RecordName())

	case resolve.OutcomeAmbiguous:
		names := make([]string, 0, len(res.Candidates))
		for _, c := range res.Candidates {
			names = append(names, c.RecordName())
		}
		return "", fmt.Sprintf("Which %s did you mean: %s?", label, strings.Join(names, ", "))

	default: // NotFound
		if creatable {
			return "", fmt.Sprintf("I don't have a %s named %q yet; it will be created when you save.", label, query)
		}
		return "", fmt.Sprintf("I couldn't find any %s named %q.", label, query)
	}
}

// persist confirms the task and hands the finished record to the storage
// collaborator. On failure the task rolls back to collecting with every
// field value intact, so the operator can retry without re-dictation.
func (p *Pipeline) persist(ctx context.Context, t task.Task) (string, error) {
	if err := t.Confirm(); err != nil {
		return "", err
	}

	id, err := p.insert(ctx, t)
	if err != nil {
		if rbErr := t.Rollback(); rbErr != nil {
			pipelineLog.Errorf("rollback failed: %v", rbErr)
		}
		pipelineLog.Errorf("persistence failed, task back to collecting: %v", err)
		return "", err
	}

	pipelineLog.Infof("record saved: %s %s", t.Kind(), id)

	summary := t.CollectedSummary()
	p.conv.Reset()
	p.publish(types.NewExtractedEvent(nil, nil, "Saved. "+strings.ReplaceAll(summary, "\n", ", "), 1, false))
	p.publish(types.NewExtractIdleEvent())
	return id, nil
}

// insert maps the task's collected fields onto a domain record and writes
// it. Unresolved vendor and location references are created inline at this
// point, flagged incomplete for later follow-up.
func (p *Pipeline) insert(ctx context.Context, t task.Task) (string, error) {
	f := t.Fields()

	switch t.Kind() {
	case task.KindEquipment:
		vendorID, err := p.vendorIDFor(ctx, f[task.FieldVendor])
		if err != nil {
			return "", err
		}
		locationID, err := p.locationIDFor(ctx, f[task.FieldLocation])
		if err != nil {
			return "", err
		}
		return p.st.InsertEquipment(ctx, types.Equipment{
			Name:         f[task.FieldName],
			Serial:       f[task.FieldSerial],
			Model:        f[task.FieldModel],
			Manufacturer: f[task.FieldManufacturer],
			Class:        f[task.FieldClass],
			VendorID:     vendorID,
			LocationID:   locationID,
			Notes:        f[task.FieldNotes],
		})

	case task.KindMaintenance:
		vendorID, err := p.vendorIDFor(ctx, f[task.FieldVendor])
		if err != nil {
			return "", err
		}
		performer := f[task.FieldPerformer]
		if performer == "" {
			performer = performerFromHint(p.conv.SpeakerHint())
		}
		return p.st.InsertMaintenance(ctx, types.MaintenanceLog{
			EquipmentID: p.equipmentIDFor(ctx, f[task.FieldEquipment]),
			VendorID:    vendorID,
			Kind:        f[task.FieldType],
			Description: f[task.FieldDescription],
			Performer:   performer,
			Outcome:     f[task.FieldOutcome],
			Date:        f[task.FieldDate],
		})

	case task.KindVendor:
		return p.st.InsertVendor(ctx, types.Vendor{
			Name:  f[task.FieldName],
			Phone: f[task.FieldPhone],
			Email: f[task.FieldEmail],
			Notes: f[task.FieldNotes],
		})

	case task.KindLocation:
		return p.st.InsertLocation(ctx, types.Location{
			Name:  f[task.FieldName],
			Floor: f[task.FieldFloor],
			Notes: f[task.FieldNotes],
		})

	default:
		return "", fmt.Errorf("pipeline: unknown task kind %q", t.Kind())
	}
}

// vendorIDFor resolves a spoken vendor reference to a record id, creating
// a minimal incomplete record when no match exists.
func (p *Pipeline) vendorIDFor(ctx context.Context, query string) (string, error) {
	if query == "" {
		return "", nil
	}
	pool, err := p.st.ActiveVendors(ctx)
	if err != nil {
		return "", err
	}

	r := resolve.NewResolver[types.Vendor](p.resolverCfg)
	res := r.Resolve(query, pool)
	if res.Outcome == resolve.OutcomeFound {
		return res.Record.ID, nil
	}

	pipelineLog.Infof("vendor %q unresolved (%s), creating inline", query, res.Outcome)
	return p.st.CreateVendor(ctx, types.Vendor{Name: query})
}

// locationIDFor resolves a spoken location reference to a record id,
// creating a minimal incomplete record when no match exists.
func (p *Pipeline) locationIDFor(ctx context.Context, query string) (string, error) {
	if query == "" {
		return "", nil
	}
	pool, err := p.st.ActiveLocations(ctx)
	if err != nil {
		return "", err
	}

	r := resolve.NewResolver[types.Location](p.resolverCfg)
	res := r.Resolve(query, pool)
	if res.Outcome == resolve.OutcomeFound {
		return res.Record.ID, nil
	}

	pipelineLog.Infof("location %q unresolved (%s), creating inline", query, res.Outcome)
	return p.st.CreateLocation(ctx, types.Location{Name: query})
}

// equipmentIDFor resolves a spoken equipment reference. Equipment is never
// created inline; an unresolved reference leaves the id blank.
func (p *Pipeline) equipmentIDFor(ctx context.Context, query string) string {
	if query == "" {
		return ""
	}
	pool, err := p.st.ActiveEquipment(ctx)
	if err != nil {
		pipelineLog.Warnf("equipment listing failed: %v", err)
		return ""
	}

	r := resolve.NewResolver[types.Equipment](p.resolverCfg)
	res := r.Resolve(query, pool)
	if res.Outcome == resolve.OutcomeFound {
		return res.Record.ID
	}
	return ""
}

// performerFromHint derives the performer label from the speaker inference
// when the field was never dictated. First-person narration means the
// dictating operator did the work themselves.
func performerFromHint(hint types.SpeakerHint) string {
	switch hint {
	case types.SpeakerLikelyPerformer:
		return "operator (self-reported)"
	case types.SpeakerLikelyOperator:
		return "external technician"
	default:
		return ""
	}
}
