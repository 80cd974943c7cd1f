package llm

// AvailableModels — модели Together, с которыми генератор проверялся.
// Первая в списке используется по умолчанию.
var AvailableModels = []ModelInfo{
	{
		ID:          "mistralai/Mistral-7B-Instruct-v0.3",
		Name:        "Mistral 7B Instruct v0.3",
		Description: "Default post writer",
	},
	{
		ID:          "mistralai/Mistral-7B-Instruct-v0.2",
		Name:        "Mistral 7B Instruct v0.2",
		Description: "Cheaper fallback",
	},
	{
		ID:          "mistralai/Mixtral-8x7B-Instruct-v0.1",
		Name:        "Mixtral 8x7B Instruct",
		Description: "Larger mixture-of-experts model",
	},
	{
		ID:          "meta-llama/Llama-3.3-70B-Instruct-Turbo",
		Name:        "Llama 3.3 70B Turbo",
		Description: "Open Meta model",
	},
	{
		ID:          "Qwen/Qwen2.5-7B-Instruct-Turbo",
		Name:        "Qwen 2.5 7B Turbo",
		Description: "Fast and inexpensive",
	},
}

// ModelInfo описывает модель из каталога.
type ModelInfo struct {
	ID          string // Идентификатор модели для API
	Name        string // Короткое название для отображения
	Description string
}

// GetModelByID возвращает информацию о модели по её ID или nil.
func GetModelByID(modelID string) *ModelInfo {
	for _, m := range AvailableModels {
		if m.ID == modelID {
			return &m
		}
	}
	return nil
}

// IsKnownModel сообщает, есть ли модель в каталоге. Неизвестные ID допустимы,
// при старте о них только предупреждаем.
func IsKnownModel(modelID string) bool {
	return GetModelByID(modelID) != nil
}

// GetModelName возвращает короткое название модели или сам ID.
func GetModelName(modelID string) string {
	if info := GetModelByID(modelID); info != nil {
		return info.Name
	}
	return modelID
}
