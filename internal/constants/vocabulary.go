package constants

// Порядок тренингов в отчетах. Остальные идут после по алфавиту.
var TrainingOrder = []string{
	"Training CRM",
	"Training TCR",
	"Training Cash Sorter",
	"Training EDC",
	"Training POS",
	"Training Edisi",
	"Training Komunikasi Dasar",
}

const TrainingPrefix = "Training "

// Поля, в которых тренинги перечислены через запятую.
var TrainingListFields = []string{
	"technical_skills_training",
	"soft_skills_training",
}

// Поля инженера, которые не сканируются на ключевые слова тренингов.
var TrainingScanSkip = map[string]bool{
	"id":                        true,
	"name":                      true,
	"area_group":                true,
	"region":                    true,
	"vendor":                    true,
	"join_date":                 true,
	"years_experience":          true,
	"latitude":                  true,
	"longitude":                 true,
	"technical_skills_training": true,
	"soft_skills_training":      true,
}

var TrainingKeywords = []string{"training", "crm", "tcr", "edc", "pos", "cash", "edisi"}

// Статусы SO, которые считаются закрытыми.
var CompletedStatuses = map[string]bool{
	"completed": true,
	"closed":    true,
	"selesai":   true,
	"done":      true,
}

var WarrantyStatuses = map[string]bool{
	"on warranty": true,
	"in warranty": true,
}

// Алиасы полей SO. Порядок важен: первый найденный выигрывает.
var (
	SOAssignedFields  = []string{"assigned_at", "waktu_assign", "assign_time", "tanggal_assign"}
	SOStartedFields   = []string{"started_at", "waktu_mulai", "start_time", "tanggal_mulai"}
	SOCompletedFields = []string{"completed_at", "waktu_selesai", "complete_time", "tanggal_selesai"}
	SOClosedFields    = []string{"closed_at", "waktu_close", "close_time", "tanggal_close"}
	SODateFields      = []string{"tanggal", "date", "created_date", "assigned_at", "created_at"}
	SOStatusFields    = []string{"status", "status_so", "state"}
	SOIDFields        = []string{"so_number", "so_id", "id", "wo_number"}
)

var (
	EngineerFields    = []string{"engineer", "engineer_name", "ce_name"}
	CustomerFields    = []string{"customer", "customer_name"}
	ExperienceFields  = []string{"years_experience", "experience"}
	InstallYearFields = []string{"year", "install_year", "tahun"}
	MachineTypeFields = []string{"machine_type", "type"}
)

// Регионы, которые в отчетах всегда идут первыми.
var PrimaryRegions = []string{"Region 1", "Region 2", "Region 3"}
