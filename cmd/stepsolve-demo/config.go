package main

import (
	"strings"

	hosterrors "stepsolve/pkg/errors"

	"stepsolve/pkg/config"
	"stepsolve/pkg/kinproj"
	"stepsolve/pkg/stepkin"
)

// buildSteppers reads every [stepper_*] section and turns it into a
// stepperConfig, dispatching on the section's "kind" option (default
// "cartesian") to pick the projection shape: cartesian (single axis),
// corexy (belt pair), or generic (arbitrary linear combination).
func buildSteppers(cfg *config.Config) ([]stepperConfig, error) {
	var out []stepperConfig
	for _, section := range cfg.GetPrefixSections("stepper_") {
		sc, err := buildStepper(section)
		if err != nil {
			return nil, hosterrors.ConfigValidationError(section.GetName(), "", err.Error())
		}
		out = append(out, sc)
	}
	return out, nil
}

func buildStepper(section *config.Section) (stepperConfig, error) {
	name := section.GetName()

	stepDist, err := section.GetFloatWithBounds("step_distance", config.FloatBounds{MinVal: ptr(0.0)}, 0.01)
	if err != nil {
		return stepperConfig{}, err
	}
	preActive, err := section.GetFloat("gen_steps_pre_active", 0)
	if err != nil {
		return stepperConfig{}, err
	}
	postActive, err := section.GetFloat("gen_steps_post_active", 0)
	if err != nil {
		return stepperConfig{}, err
	}

	kind, err := section.GetChoice("kind", []string{"cartesian", "corexy", "generic"}, "cartesian")
	if err != nil {
		return stepperConfig{}, err
	}

	var projection stepkin.Projection
	var flags int

	switch kind {
	case "corexy":
		sign, err := section.GetFloat("sign", 1)
		if err != nil {
			return stepperConfig{}, err
		}
		projection = kinproj.CoreXY(sign)
		flags = stepkin.AxisX | stepkin.AxisY

	case "generic":
		ax, err := section.GetFloat("ax", 1)
		if err != nil {
			return stepperConfig{}, err
		}
		ay, err := section.GetFloat("ay", 0)
		if err != nil {
			return stepperConfig{}, err
		}
		az, err := section.GetFloat("az", 0)
		if err != nil {
			return stepperConfig{}, err
		}
		projection = kinproj.GenericCartesian(ax, ay, az)
		flags = stepkin.AxisX | stepkin.AxisY | stepkin.AxisZ

	default: // "cartesian"
		axisLetter, err := section.GetChoice("axis", []string{"x", "y", "z"}, axisFromName(name))
		if err != nil {
			return stepperConfig{}, err
		}
		axis := map[string]int{"x": kinproj.X, "y": kinproj.Y, "z": kinproj.Z}[axisLetter]
		projection = kinproj.Cartesian(axis)
		flags = stepkin.AxisFlag(axisLetter[0])
	}

	return stepperConfig{
		name:             name,
		projection:       projection,
		activeFlags:      flags,
		stepDist:         stepDist,
		genStepsPreActve: preActive,
		genStepsPostActv: postActive,
	}, nil
}

// axisFromName guesses an axis letter from a "stepper_x"-style section name,
// the default when a cartesian stepper doesn't specify "axis" explicitly.
func axisFromName(name string) string {
	if idx := strings.LastIndex(name, "_"); idx != -1 && idx+1 < len(name) {
		suffix := name[idx+1:]
		switch suffix {
		case "x", "y", "z":
			return suffix
		}
	}
	return "x"
}

func ptr(f float64) *float64 { return &f }
