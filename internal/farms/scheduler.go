package farms

import (
	"time"

	"github.com/angelmondragon/farmsip-backend/pkg/db/models"
	"github.com/angelmondragon/farmsip-backend/pkg/enums"
	"github.com/google/uuid"
)

// SetupTaskCount is the number of tasks every farm is created with.
const SetupTaskCount = 5

const day = 24 * time.Hour

type setupTaskTemplate struct {
	taskType enums.TaskType
	offset   time.Duration
	priority enums.TaskPriority
}

// chronological; consecutive offsets are at least 6 days apart
var setupTaskPlan = [SetupTaskCount]setupTaskTemplate{
	{taskType: enums.TaskTypeSoilPreparation, offset: 7 * day, priority: enums.TaskPriorityHigh},
	{taskType: enums.TaskTypePolyhouseSetup, offset: 14 * day, priority: enums.TaskPriorityCritical},
	{taskType: enums.TaskTypeIrrigationInstall, offset: 21 * day, priority: enums.TaskPriorityHigh},
	{taskType: enums.TaskTypePlanting, offset: 30 * day, priority: enums.TaskPriorityCritical},
	{taskType: enums.TaskTypeInitialCare, offset: 37 * day, priority: enums.TaskPriorityMedium},
}

// ScheduleSetupTasks returns the five SCHEDULED setup tasks for a farm, all dated strictly after
// referenceTime. It has no side effects.
func ScheduleSetupTasks(farmID uuid.UUID, referenceTime time.Time) []models.FarmTask {
	ref := referenceTime.UTC()
	tasks := make([]models.FarmTask, 0, SetupTaskCount)
	for _, tmpl := range setupTaskPlan {
		tasks = append(tasks, models.FarmTask{
			ID:            uuid.New(),
			FarmID:        farmID,
			Type:          tmpl.taskType,
			Status:        enums.TaskStatusScheduled,
			Priority:      tmpl.priority,
			ScheduledDate: ref.Add(tmpl.offset),
			CreatedAt:     ref,
		})
	}
	return tasks
}
