package events

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/samber/lo"
)

type Kind string

const (
	KindTasksDeleted     Kind = "TasksDeleted"
	KindTaskStateChange  Kind = "TaskStateChange"
	KindVetoed           Kind = "Vetoed"
	KindTaskRescheduled  Kind = "TaskRescheduled"
	KindStorageStarted   Kind = "StorageStarted"
	KindDriverRegistered Kind = "DriverRegistered"
)

// Event is implemented by every notification variant of this package and by nothing else.
type Event interface {
	fmt.Stringer

	Kind() Kind
	// Key is a canonical rendering of the variant and its fields.
	// Two events are equal if and only if their keys are equal.
	Key() string

	sealed()
}

// Equal reports whether a and b are the same variant with the same fields.
func Equal(a, b Event) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

// Hash returns a stable hash of the event, shared by all equal events.
func Hash(e Event) uint64 {
	return xxhash.Sum64String(e.Key())
}

func key(kind Kind, fields ...string) string {
	return string(kind) + "(" + strings.Join(fields, ",") + ")"
}

// encodeSet joins quoted values with commas. The result round-trips through decodeSet.
func encodeSet(values []string) string {
	return strings.Join(lo.Map(values, func(v string, _ int) string { return strconv.Quote(v) }), ",")
}

func decodeSet(encoded string) []string {
	var values []string
	for encoded != "" {
		quoted := lo.Must(strconv.QuotedPrefix(encoded))
		values = append(values, lo.Must(strconv.Unquote(quoted)))
		encoded = strings.TrimPrefix(encoded[len(quoted):], ",")
	}
	return values
}

// Tasks

// TasksDeleted keeps its IDs as an encoded sorted set so the struct stays comparable.
type TasksDeleted struct {
	taskIDs string
}

// NewTasksDeleted builds a TasksDeleted event. Duplicate IDs collapse.
func NewTasksDeleted(taskIDs ...string) (TasksDeleted, error) {
	if len(taskIDs) == 0 {
		return TasksDeleted{}, invalid(KindTasksDeleted, "task ids", "must not be empty")
	}
	if lo.Contains(taskIDs, "") {
		return TasksDeleted{}, invalid(KindTasksDeleted, "task id", "must not be empty")
	}

	ids := lo.Uniq(taskIDs)
	slices.Sort(ids)
	return TasksDeleted{taskIDs: encodeSet(ids)}, nil
}

func (e TasksDeleted) TaskIDs() []string {
	return decodeSet(e.taskIDs)
}

func (e TasksDeleted) Contains(taskID string) bool {
	_, found := slices.BinarySearch(e.TaskIDs(), taskID)
	return found
}

func (e TasksDeleted) Kind() Kind { return KindTasksDeleted }

func (e TasksDeleted) Key() string {
	return key(KindTasksDeleted, "["+e.taskIDs+"]")
}

func (e TasksDeleted) String() string {
	return fmt.Sprintf("TasksDeleted{%s}", strings.Join(e.TaskIDs(), ", "))
}

func (TasksDeleted) sealed() {}

type TaskStateChange struct {
	taskID   string
	oldState ScheduleStatus
	newState ScheduleStatus
}

func NewTaskStateChange(taskID string, oldState, newState ScheduleStatus) (TaskStateChange, error) {
	if taskID == "" {
		return TaskStateChange{}, invalid(KindTaskStateChange, "task id", "must not be empty")
	}
	if !oldState.Valid() {
		return TaskStateChange{}, invalid(KindTaskStateChange, "old state", fmt.Sprintf("'%s' is not a schedule status", oldState))
	}
	if !newState.Valid() {
		return TaskStateChange{}, invalid(KindTaskStateChange, "new state", fmt.Sprintf("'%s' is not a schedule status", newState))
	}

	return TaskStateChange{taskID: taskID, oldState: oldState, newState: newState}, nil
}

func (e TaskStateChange) TaskID() string           { return e.taskID }
func (e TaskStateChange) OldState() ScheduleStatus { return e.oldState }
func (e TaskStateChange) NewState() ScheduleStatus { return e.newState }

func (e TaskStateChange) Kind() Kind { return KindTaskStateChange }

func (e TaskStateChange) Key() string {
	return key(KindTaskStateChange, strconv.Quote(e.taskID), string(e.oldState), string(e.newState))
}

func (e TaskStateChange) String() string {
	return fmt.Sprintf("TaskStateChange{%s: %s -> %s}", e.taskID, e.oldState, e.newState)
}

func (TaskStateChange) sealed() {}

// Scheduling

// Veto is a reason why a task could not be placed on an offer.
type Veto struct {
	Reason string
	Score  int
}

func (v Veto) String() string {
	return fmt.Sprintf("%s (score %d)", v.Reason, v.Score)
}

func compareVetoes(a, b Veto) int {
	if c := strings.Compare(a.Reason, b.Reason); c != 0 {
		return c
	}
	return cmp.Compare(a.Score, b.Score)
}

// Vetoed keeps its vetoes as an encoded sorted set so the struct stays comparable.
// Each veto is encoded as its quoted reason, a colon and its score.
type Vetoed struct {
	taskID string
	vetoes string
}

// NewVetoed builds a Vetoed event. Zero vetoes are allowed; duplicate vetoes collapse.
func NewVetoed(taskID string, vetoes ...Veto) (Vetoed, error) {
	if taskID == "" {
		return Vetoed{}, invalid(KindVetoed, "task id", "must not be empty")
	}
	if lo.ContainsBy(vetoes, func(v Veto) bool { return v.Reason == "" }) {
		return Vetoed{}, invalid(KindVetoed, "veto reason", "must not be empty")
	}

	set := lo.Uniq(vetoes)
	slices.SortFunc(set, compareVetoes)
	encoded := lo.Map(set, func(v Veto, _ int) string {
		return strconv.Quote(v.Reason) + ":" + strconv.Itoa(v.Score)
	})
	return Vetoed{taskID: taskID, vetoes: strings.Join(encoded, ",")}, nil
}

func (e Vetoed) TaskID() string { return e.taskID }

func (e Vetoed) Vetoes() []Veto {
	var vetoes []Veto
	for encoded := e.vetoes; encoded != ""; {
		quoted := lo.Must(strconv.QuotedPrefix(encoded))
		score, rest, _ := strings.Cut(encoded[len(quoted)+1:], ",")
		vetoes = append(vetoes, Veto{
			Reason: lo.Must(strconv.Unquote(quoted)),
			Score:  lo.Must(strconv.Atoi(score)),
		})
		encoded = rest
	}
	return vetoes
}

func (e Vetoed) Kind() Kind { return KindVetoed }

func (e Vetoed) Key() string {
	return key(KindVetoed, strconv.Quote(e.taskID), "["+e.vetoes+"]")
}

func (e Vetoed) String() string {
	return fmt.Sprintf("Vetoed{%s: %s}", e.taskID, strings.Join(lo.Map(e.Vetoes(), func(v Veto, _ int) string {
		return v.String()
	}), ", "))
}

func (Vetoed) sealed() {}

type TaskRescheduled struct {
	role  string
	job   string
	shard int
}

func NewTaskRescheduled(role, job string, shard int) (TaskRescheduled, error) {
	if role == "" {
		return TaskRescheduled{}, invalid(KindTaskRescheduled, "role", "must not be empty")
	}
	if job == "" {
		return TaskRescheduled{}, invalid(KindTaskRescheduled, "job", "must not be empty")
	}
	if shard < 0 {
		return TaskRescheduled{}, invalid(KindTaskRescheduled, "shard", "must not be negative")
	}

	return TaskRescheduled{role: role, job: job, shard: shard}, nil
}

func (e TaskRescheduled) Role() string { return e.role }
func (e TaskRescheduled) Job() string  { return e.job }
func (e TaskRescheduled) Shard() int   { return e.shard }

func (e TaskRescheduled) Kind() Kind { return KindTaskRescheduled }

func (e TaskRescheduled) Key() string {
	return key(KindTaskRescheduled, strconv.Quote(e.role), strconv.Quote(e.job), strconv.Itoa(e.shard))
}

func (e TaskRescheduled) String() string {
	return fmt.Sprintf("TaskRescheduled{%s/%s/%d}", e.role, e.job, e.shard)
}

func (TaskRescheduled) sealed() {}

// Lifecycle

// StorageStarted is sent once the storage layer has completed initialization.
type StorageStarted struct{}

func (StorageStarted) Kind() Kind     { return KindStorageStarted }
func (StorageStarted) Key() string    { return key(KindStorageStarted) }
func (StorageStarted) String() string { return "StorageStarted{}" }
func (StorageStarted) sealed()        {}

// DriverRegistered is sent once the cluster driver has completed registration.
type DriverRegistered struct{}

func (DriverRegistered) Kind() Kind     { return KindDriverRegistered }
func (DriverRegistered) Key() string    { return key(KindDriverRegistered) }
func (DriverRegistered) String() string { return "DriverRegistered{}" }
func (DriverRegistered) sealed()        {}
