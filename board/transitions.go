package board

import (
	"strings"

	"workload-board/domain"
)

// Transitions take a private copy of the state and report whether the board
// (people or weights) changed. Selection updates ride along and are not
// reported. None of them touch scores or storage.

func addPerson(st *State, id, name string, level domain.Level) bool {
	p, err := domain.NewPerson(id, name, level)
	if err != nil {
		return false
	}
	st.People = append(st.People, p)
	return true
}

func renamePerson(st *State, id, name string) bool {
	if st.Selection.EditingPersonID == id {
		st.Selection.EditingPersonID = ""
	}
	i := st.personIndex(id)
	name = strings.TrimSpace(name)
	if i < 0 || name == "" || st.People[i].Name == name {
		return false
	}
	st.People[i].Name = name
	return true
}

func changeLevel(st *State, id string, level domain.Level) bool {
	i := st.personIndex(id)
	if i < 0 || !level.Valid() || st.People[i].Level == level {
		return false
	}
	st.People[i].Level = level
	return true
}

func deletePerson(st *State, id string) bool {
	i := st.personIndex(id)
	if i < 0 {
		return false
	}
	st.People = append(st.People[:i], st.People[i+1:]...)
	if st.Selection.PersonID == id {
		st.Selection.PersonID = ""
		st.Selection.TaskID = ""
	}
	if st.Selection.EditingPersonID == id {
		st.Selection.EditingPersonID = ""
	}
	return true
}

func movePerson(st *State, index int, dir domain.Direction) bool {
	people, moved := domain.MovePerson(st.People, index, dir)
	if !moved {
		return false
	}
	st.People = people
	return true
}

func addTask(st *State, personID, taskID, title string, estimation domain.EstimationSize, color string) bool {
	i := st.personIndex(personID)
	if i < 0 {
		return false
	}
	task, err := domain.NewTask(taskID, title, estimation, color)
	if err != nil {
		return false
	}
	st.People[i].Tasks = append(st.People[i].Tasks, task)
	if st.Selection.PersonID == personID && st.Selection.TaskID == "" {
		st.Selection.PersonID = ""
	}
	return true
}

func updateTask(st *State, personID, taskID, title string, estimation domain.EstimationSize, color string) bool {
	i := st.personIndex(personID)
	if i < 0 {
		return false
	}
	j := st.People[i].TaskIndex(taskID)
	if j < 0 {
		return false
	}
	task, err := domain.NewTask(taskID, title, estimation, color)
	if err != nil {
		return false
	}
	if st.Selection.PersonID == personID && st.Selection.TaskID == taskID {
		st.Selection.PersonID = ""
		st.Selection.TaskID = ""
	}
	if st.People[i].Tasks[j] == task {
		return false
	}
	st.People[i].Tasks[j] = task
	return true
}

func deleteTask(st *State, personID, taskID string) bool {
	i := st.personIndex(personID)
	if i < 0 {
		return false
	}
	j := st.People[i].TaskIndex(taskID)
	if j < 0 {
		return false
	}
	tasks := st.People[i].Tasks
	st.People[i].Tasks = append(tasks[:j], tasks[j+1:]...)
	if st.Selection.TaskID == taskID {
		st.Selection.PersonID = ""
		st.Selection.TaskID = ""
	}
	return true
}

func reorderTasks(st *State, personID, fromTaskID, toTaskID string) bool {
	i := st.personIndex(personID)
	if i < 0 {
		return false
	}
	tasks, moved := domain.MoveTask(st.People[i].Tasks, fromTaskID, toTaskID)
	if !moved {
		return false
	}
	st.People[i].Tasks = tasks
	return true
}

func saveWeights(st *State, table domain.WeightTable) bool {
	st.Weights = table.Clone()
	return true
}

func resetToDefaults(st *State) bool {
	st.People = domain.DefaultPeople()
	st.Weights = domain.DefaultWeights()
	st.Selection = Selection{}
	return true
}
