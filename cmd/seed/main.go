package main

import (
	"log"
	"os"
	"time"

	"github.com/momonga11/notenext-server/internal/model"
	"github.com/momonga11/notenext-server/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

const demoEmail = "demo@example.com"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding demo workspace...")

	var existing model.User
	if err := db.Where("email = ?", demoEmail).First(&existing).Error; err == nil {
		color.Yellow("Demo user already exists, skipping...")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Error: Failed to hash demo password:", err)
	}

	user := model.User{Email: demoEmail, PasswordHash: string(hash), Name: "Demo User"}
	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Error: Failed to create demo user:", err)
	}

	project := model.Project{Name: "Demo Project", Description: "A project to explore NoteNext"}
	if err := db.Create(&project).Error; err != nil {
		log.Fatal("Error: Failed to create demo project:", err)
	}

	member := model.ProjectMember{UserId: user.Id, ProjectId: project.Id, IsOwner: true}
	if err := db.Create(&member).Error; err != nil {
		log.Fatal("Error: Failed to create project membership:", err)
	}

	folder := model.Folder{ProjectId: project.Id, Name: "Getting Started", Description: "First steps with NoteNext"}
	if err := db.Create(&folder).Error; err != nil {
		log.Fatal("Error: Failed to create demo folder:", err)
	}

	notes := []model.Note{
		{
			ProjectId: project.Id,
			FolderId:  folder.Id,
			Title:     "Welcome to NoteNext",
			Text:      "Notes live inside folders. Edit this note to get a feel for the editor.",
			HtmlText:  "<p>Notes live inside folders. Edit this note to get a feel for the editor.</p>",
		},
		{
			ProjectId: project.Id,
			FolderId:  folder.Id,
			Title:     "Tasks",
			Text:      "Attach a task to a note to track a due date.",
			HtmlText:  "<p>Attach a task to a note to track a due date.</p>",
		},
	}
	for i := range notes {
		if err := db.Create(&notes[i]).Error; err != nil {
			log.Fatal("Error: Failed to create demo note:", err)
		}
		color.Green("Created note: %s", notes[i].Title)
	}

	dateTo := datatypes.Date(time.Now().AddDate(0, 0, 7))
	task := model.Task{ProjectId: project.Id, NoteId: notes[1].Id, DateTo: &dateTo}
	if err := db.Create(&task).Error; err != nil {
		log.Fatal("Error: Failed to create demo task:", err)
	}

	color.Green("Success: Seeded %s / password123 (owner of %q)", demoEmail, project.Name)
}
