package capability

import (
	"encoding/json"
	"fmt"
)

// PolicyDecision is the result of a single capability check. Decisions are
// never cached; every attempt is recomputed.
type PolicyDecision struct {
	Allowed bool
	Reason  string
}

// Task is the slice of the task-execution payload the policy engine
// consumes. Payload is carried opaquely and never parsed here.
type Task struct {
	TaskID    string          `json:"task_id"`
	TaskType  string          `json:"task_type"`
	CreatedBy string          `json:"created_by"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Engine authorizes attempted use of sensitive capabilities. It holds no
// mutable state: configuration is fixed at construction and every decision
// is a pure function of its inputs.
type Engine struct {
	taskCaps map[string][]HardwareCapability
	nodeID   string
}

// NewEngine creates an Engine for the given local node ID using the default
// task-capability mapping.
func NewEngine(nodeID string) *Engine {
	return NewEngineWithMapping(nodeID, DefaultTaskCapabilities())
}

// NewEngineWithMapping creates an Engine with a caller-supplied mapping.
func NewEngineWithMapping(nodeID string, taskCaps map[string][]HardwareCapability) *Engine {
	return &Engine{taskCaps: taskCaps, nodeID: nodeID}
}

// NodeID returns the local node ID tasks are compared against.
func (e *Engine) NodeID() string {
	return e.nodeID
}

// CanUse decides whether a capability may be used for the given task type.
// Rules are evaluated top to bottom; the first match wins:
//
//  1. No configured mapping for the task type: allow, no restriction declared.
//  2. Sensitive capability on a network-originated task: deny. Network tasks
//     may never trigger audio/video capture, explicit flag or not.
//  3. Sensitive capability without an explicit local request: deny.
//  4. Otherwise allow.
func (e *Engine) CanUse(c HardwareCapability, taskType string, isNetworkTask, isExplicitRequest bool) PolicyDecision {
	if _, ok := e.taskCaps[taskType]; !ok {
		return PolicyDecision{Allowed: true, Reason: "no capability restrictions"}
	}

	if IsSensitive(c) {
		if isNetworkTask {
			return PolicyDecision{
				Allowed: false,
				Reason:  fmt.Sprintf("network tasks may not use %s", c),
			}
		}
		if !isExplicitRequest {
			return PolicyDecision{
				Allowed: false,
				Reason:  fmt.Sprintf("%s requires an explicit user request", c),
			}
		}
	}

	return PolicyDecision{Allowed: true, Reason: "allowed by policy"}
}

// CheckTask authorizes a task against all of its required capabilities.
// The task is allowed if any one alternative passes. When every alternative
// is denied, the reason returned is the last capability's denial reason.
// That last-wins aggregation is ordering-dependent and almost certainly
// incidental, but callers depend on the current behavior; see DESIGN.md
// before changing it.
func (e *Engine) CheckTask(task Task, isExplicitRequest bool) PolicyDecision {
	caps, ok := e.taskCaps[task.TaskType]
	if !ok || len(caps) == 0 {
		return PolicyDecision{Allowed: true, Reason: "no capability restrictions"}
	}

	isNetworkTask := task.CreatedBy != e.nodeID

	var last PolicyDecision
	for _, c := range caps {
		last = e.CanUse(c, task.TaskType, isNetworkTask, isExplicitRequest)
		if last.Allowed {
			return last
		}
	}
	return last
}
