package handlers

import (
	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/middleware"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func GetProjects(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var projects []models.Project
	if err := database.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Preload("Tasks", "is_active = ?", true).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to fetch projects")
	}

	summaries := make([]models.ProjectSummary, len(projects))
	for i, project := range projects {
		completed := 0
		for _, task := range project.Tasks {
			if task.Completed {
				completed++
			}
		}
		summaries[i] = models.ProjectSummary{
			ID:             project.ID,
			Title:          project.Title,
			Color:          project.Color,
			DueDate:        project.DueDate,
			TaskCount:      len(project.Tasks),
			CompletedCount: completed,
		}
	}

	return respondOK(c, "OK", fiber.Map{"projects": summaries})
}

func GetProject(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	var project models.Project
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		projectID, userID, true).
		Preload("Tasks", "is_active = ?", true).
		First(&project).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Project not found")
	}

	return respondOK(c, "OK", fiber.Map{"project": project})
}

func CreateProject(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" {
		services.Audit(userID, "create_project", "project", "", false, "missing title", nil)
		return respondErr(c, fiber.StatusUnprocessableEntity, "Title is required")
	}

	project := models.Project{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		DueDate:     req.DueDate,
		IsActive:    true,
	}
	if err := database.DB.Create(&project).Error; err != nil {
		services.Audit(userID, "create_project", "project", "", false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to create project")
	}

	services.Audit(userID, "create_project", "project", project.ID.String(), true, "", nil)
	return respondCreated(c, "Project created", fiber.Map{"project": project})
}

func UpdateProject(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	var project models.Project
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		projectID, userID, true).First(&project).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Project not found")
	}

	var req models.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Color != nil {
		project.Color = *req.Color
	}
	if req.DueDate != nil {
		project.DueDate = req.DueDate
	}

	if err := database.DB.Save(&project).Error; err != nil {
		services.Audit(userID, "update_project", "project", projectID.String(), false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to update project")
	}

	services.Audit(userID, "update_project", "project", projectID.String(), true, "", nil)
	return respondOK(c, "Project updated", fiber.Map{"project": project})
}

func DeleteProject(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	result := database.DB.Model(&models.Project{}).
		Where("id = ? AND user_id = ? AND is_active = ?", projectID, userID, true).
		Update("is_active", false)
	if result.RowsAffected == 0 {
		return respondErr(c, fiber.StatusNotFound, "Project not found or already inactive")
	}

	// Tasks go with the project.
	database.DB.Model(&models.Task{}).
		Where("project_id = ? AND is_active = ?", projectID, true).
		Update("is_active", false)

	services.Audit(userID, "delete_project", "project", projectID.String(), true, "", nil)
	return respondOK(c, "Project deleted", nil)
}

func CreateTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid project ID")
	}

	var project models.Project
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		projectID, userID, true).First(&project).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Project not found")
	}

	var req models.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" {
		return respondErr(c, fiber.StatusUnprocessableEntity, "Title is required")
	}

	task := models.Task{
		ProjectID:   projectID,
		UserID:      userID,
		Title:       req.Title,
		DueDate:     req.DueDate,
		AssigneeIDs: req.AssigneeIDs,
		IsActive:    true,
	}
	if err := database.DB.Create(&task).Error; err != nil {
		services.Audit(userID, "create_task", "task", "", false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to create task")
	}

	notifyTagged(userID, req.AssigneeIDs, "task", task.Title,
		map[string]interface{}{"projectId": projectID.String(), "taskId": task.ID.String()})

	services.Audit(userID, "create_task", "task", task.ID.String(), true, "", nil)
	return respondCreated(c, "Task created", fiber.Map{"task": task})
}

func UpdateTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	var task models.Task
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		taskID, userID, true).First(&task).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Task not found")
	}

	var req models.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	var newlyAssigned []string
	if req.AssigneeIDs != nil {
		existing := map[string]bool{}
		for _, id := range task.AssigneeIDs {
			existing[id] = true
		}
		for _, id := range *req.AssigneeIDs {
			if !existing[id] {
				newlyAssigned = append(newlyAssigned, id)
			}
		}
		task.AssigneeIDs = *req.AssigneeIDs
	}

	if err := database.DB.Save(&task).Error; err != nil {
		services.Audit(userID, "update_task", "task", taskID.String(), false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to update task")
	}

	notifyTagged(userID, newlyAssigned, "task", task.Title,
		map[string]interface{}{"projectId": task.ProjectID.String(), "taskId": task.ID.String()})

	services.Audit(userID, "update_task", "task", taskID.String(), true, "", nil)
	return respondOK(c, "Task updated", fiber.Map{"task": task})
}

func DeleteTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	result := database.DB.Model(&models.Task{}).
		Where("id = ? AND user_id = ? AND is_active = ?", taskID, userID, true).
		Update("is_active", false)
	if result.RowsAffected == 0 {
		return respondErr(c, fiber.StatusNotFound, "Task not found or already inactive")
	}

	services.Audit(userID, "delete_task", "task", taskID.String(), true, "", nil)
	return respondOK(c, "Task deleted", nil)
}
