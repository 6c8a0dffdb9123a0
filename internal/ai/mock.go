package ai

import (
	"flashquiz/internal/models"
	"flashquiz/internal/textutil"
)

// Canned study material returned when mock mode is on or generation fails.
// Each call stamps fresh IDs so repeated fallbacks never collide in storage.

var mockFlashcards = []models.Flashcard{
	{Question: "What is machine learning?", Answer: "A subset of AI that enables systems to learn from data and improve from experience without being explicitly programmed."},
	{Question: "What is the difference between supervised and unsupervised learning?", Answer: "Supervised learning uses labeled data to train models, while unsupervised learning finds patterns in unlabeled data."},
	{Question: "What is a neural network?", Answer: "A computing system inspired by biological neural networks, consisting of interconnected nodes that process information."},
	{Question: "What is deep learning?", Answer: "A subset of machine learning that uses multi-layered neural networks to learn complex patterns from large amounts of data."},
	{Question: "What is overfitting?", Answer: "When a model learns the training data too well, including noise, resulting in poor performance on new, unseen data."},
	{Question: "What is a training dataset?", Answer: "A collection of labeled examples used to teach a machine learning model to make predictions."},
	{Question: "What is gradient descent?", Answer: "An optimization algorithm used to minimize the loss function by iteratively adjusting model parameters."},
	{Question: "What is a loss function?", Answer: "A function that measures how well a model predictions match the actual values; the goal is to minimize this."},
	{Question: "What is cross-validation?", Answer: "A technique to evaluate model performance by dividing data into subsets for training and testing multiple times."},
	{Question: "What is feature engineering?", Answer: "The process of selecting, transforming, and creating input features to improve model performance."},
}

var mockQuestions = []models.QuizQuestion{
	{
		Question:      "Which of the following best describes machine learning?",
		Options:       []string{"A programming language for AI", "A subset of AI that enables systems to learn from data", "A database management system", "A type of computer hardware"},
		CorrectAnswer: "A subset of AI that enables systems to learn from data",
		Explanation:   "Machine learning is a branch of artificial intelligence that focuses on building systems that learn from data.",
	},
	{
		Question:      "What type of learning uses labeled data?",
		Options:       []string{"Unsupervised learning", "Reinforcement learning", "Supervised learning", "Transfer learning"},
		CorrectAnswer: "Supervised learning",
		Explanation:   "Supervised learning algorithms learn from labeled training data to make predictions on new data.",
	},
	{
		Question:      "What is the purpose of a validation dataset?",
		Options:       []string{"To train the model", "To tune hyperparameters and prevent overfitting", "To store the final model", "To visualize the data"},
		CorrectAnswer: "To tune hyperparameters and prevent overfitting",
		Explanation:   "Validation data helps optimize model parameters without using the test set.",
	},
	{
		Question:      "Which algorithm is commonly used for classification tasks?",
		Options:       []string{"Linear Regression", "K-Means Clustering", "Random Forest", "Principal Component Analysis"},
		CorrectAnswer: "Random Forest",
		Explanation:   "Random Forest is an ensemble method commonly used for classification problems.",
	},
	{
		Question:      "What does CNN stand for in deep learning?",
		Options:       []string{"Computer Neural Network", "Convolutional Neural Network", "Connected Node Network", "Centralized Neuron Network"},
		CorrectAnswer: "Convolutional Neural Network",
		Explanation:   "CNNs are specialized neural networks designed for processing structured grid data like images.",
	},
	{
		Question:      "What is the main purpose of dropout in neural networks?",
		Options:       []string{"To speed up training", "To reduce overfitting", "To increase model complexity", "To improve accuracy on training data"},
		CorrectAnswer: "To reduce overfitting",
		Explanation:   "Dropout randomly disables neurons during training to prevent the model from becoming too dependent on specific neurons.",
	},
	{
		Question:      "Which metric is most appropriate for imbalanced classification?",
		Options:       []string{"Accuracy", "F1 Score", "Training Loss", "Learning Rate"},
		CorrectAnswer: "F1 Score",
		Explanation:   "F1 Score balances precision and recall, making it better suited for imbalanced datasets.",
	},
	{
		Question:      "What is transfer learning?",
		Options:       []string{"Moving data between databases", "Using a pre-trained model for a new task", "Transferring files over a network", "Converting data formats"},
		CorrectAnswer: "Using a pre-trained model for a new task",
		Explanation:   "Transfer learning leverages knowledge from one domain to improve learning in another domain.",
	},
	{
		Question:      "What is the vanishing gradient problem?",
		Options:       []string{"Gradients become too large during training", "Gradients become too small during backpropagation", "The model becomes invisible", "Loss function disappears"},
		CorrectAnswer: "Gradients become too small during backpropagation",
		Explanation:   "In deep networks, gradients can become extremely small, making it difficult to update early layers.",
	},
	{
		Question:      "Which activation function is most commonly used in hidden layers?",
		Options:       []string{"Sigmoid", "Softmax", "ReLU", "Linear"},
		CorrectAnswer: "ReLU",
		Explanation:   "ReLU (Rectified Linear Unit) is preferred because it helps mitigate the vanishing gradient problem.",
	},
}

// MockFlashcards returns up to count canned flashcards with fresh IDs.
func MockFlashcards(count int) []models.Flashcard {
	if count <= 0 || count > len(mockFlashcards) {
		count = len(mockFlashcards)
	}
	cards := make([]models.Flashcard, count)
	for i := range cards {
		cards[i] = mockFlashcards[i]
		cards[i].ID = textutil.NewID()
	}
	return cards
}

// MockQuiz returns up to count canned quiz questions with fresh IDs.
func MockQuiz(count int) []models.QuizQuestion {
	if count <= 0 || count > len(mockQuestions) {
		count = len(mockQuestions)
	}
	questions := make([]models.QuizQuestion, count)
	for i := range questions {
		questions[i] = mockQuestions[i]
		questions[i].ID = textutil.NewID()
	}
	return questions
}
