package tasks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/WilliamYue37/LTMB/types"
)

const (
	HallwayName  = "hallway"
	CountingName = "counting"
	MimicName    = "mimic"
	OrderingName = "ordering"
)

var ErrUnknownTask = errors.New("unknown task")

// Names of all the tasks
var Names = []string{HallwayName, CountingName, MimicName, OrderingName}

// ID is the registered id of a task, e.g. LTMB-Counting-v0
func ID(name string) string {
	if name == "" {
		return ""
	}
	return "LTMB-" + strings.ToUpper(name[:1]) + name[1:] + "-v0"
}

// Lookup resolves a task name or id to the task name
func Lookup(nameOrID string) (string, error) {
	for _, name := range Names {
		if strings.EqualFold(nameOrID, name) || strings.EqualFold(nameOrID, ID(name)) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTask, nameOrID)
}

// New constructs the named task after validating the configuration
func New(nameOrID string, cfg Config) (types.Environment, error) {
	name, err := Lookup(nameOrID)
	if err != nil {
		return nil, err
	}
	var env types.Environment
	switch name {
	case HallwayName:
		env, err = NewHallway(cfg)
	case CountingName:
		env, err = NewCounting(cfg)
	case MimicName:
		env, err = NewMimic(cfg)
	case OrderingName:
		env, err = NewOrdering(cfg)
	}
	if err != nil {
		return nil, err
	}
	if env != nil {
		return env, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTask, nameOrID)
}
