package recipe

import "github.com/hammamikhairi/recipebox/internal/domain"

// SeedAuthorID owns the built-in recipes.
const SeedAuthorID = "recipebox"

// Builtin returns fresh copies of the recipes that ship with the binary.
func Builtin() []*domain.Recipe {
	return []*domain.Recipe{
		vegetableStirFry(),
		chickenAlfredo(),
		softScrambledEggs(),
	}
}

func chickenAlfredo() *domain.Recipe {
	return &domain.Recipe{
		ID:          "chicken-alfredo",
		AuthorID:    SeedAuthorID,
		Title:       "Chicken Alfredo",
		Description: "Creamy spaghetti alfredo with pan-seared chicken. Rich, indulgent, and not from a jar.",
		Servings:    2,
		PrepMinutes: 10,
		CookMinutes: 30,
		Tags:        []string{"italian", "pasta", "chicken", "comfort"},
		Ingredients: []string{
			"250 g spaghetti",
			"2 medium chicken breasts",
			"1 cup creme fraiche",
			"1 cup grated gruyere",
			"3 tbsp margarine",
			"4 cloves garlic",
			"1 tbsp olive oil",
			"salt and black pepper",
		},
		Instructions: []string{
			"Bring a large pot of salted water to a boil. It should taste like the sea.",
			"Season the chicken on both sides. Pound it to an even thickness so the thin end does not dry out.",
			"Sear the chicken in olive oil over medium-high heat, about 6 minutes per side, until it reaches 74°C inside. Set aside to rest.",
			"Cook the spaghetti until al dente. Reserve a cup of pasta water before draining.",
			"Melt the margarine in the same skillet and cook the minced garlic for a minute until fragrant. Do not let it burn.",
			"Stir in the creme fraiche and simmer for about 3 minutes until it coats a spoon.",
			"Off the heat, stir in the gruyere until smooth. Loosen with pasta water if needed.",
			"Slice the chicken, toss the pasta in the sauce and serve straight away.",
		},
	}
}

func vegetableStirFry() *domain.Recipe {
	return &domain.Recipe{
		ID:          "vegetable-stir-fry",
		AuthorID:    SeedAuthorID,
		Title:       "Vegetable Stir Fry",
		Description: "Fast, crunchy, and customizable. The key is a screaming hot pan and not overcrowding it.",
		Servings:    2,
		PrepMinutes: 15,
		CookMinutes: 10,
		Tags:        []string{"asian", "vegetables", "quick", "vegan", "healthy"},
		Ingredients: []string{
			"1 large bell pepper",
			"2 cups broccoli florets",
			"1 medium carrot",
			"1 cup snap peas",
			"3 cloves garlic",
			"1 tbsp grated ginger",
			"2 tbsp soy sauce",
			"1 tbsp sesame oil",
			"2 tbsp vegetable oil",
		},
		Instructions: []string{
			"If serving with rice, start the rice first.",
			"Prep every vegetable before the pan goes on: slice, floret, julienne, trim. Mince the garlic and grate the ginger.",
			"Mix soy sauce and sesame oil with 2 tbsp water. Set aside.",
			"Heat the wok on high until it just smokes, then swirl in the vegetable oil.",
			"Stir-fry broccoli and carrot for 2 minutes, then pepper and snap peas for 2 more. Let things char.",
			"Push the vegetables aside, fry garlic and ginger in the centre for 30 seconds, then toss together.",
			"Pour over the sauce, toss to coat and cook 30 seconds more.",
			"Serve immediately.",
		},
	}
}

func softScrambledEggs() *domain.Recipe {
	return &domain.Recipe{
		ID:          "soft-scrambled-eggs",
		AuthorID:    SeedAuthorID,
		Title:       "Soft Scrambled Eggs",
		Description: "Low and slow, pulled off the heat while still glossy.",
		Servings:    1,
		PrepMinutes: 2,
		CookMinutes: 5,
		Tags:        []string{"breakfast", "quick", "vegetarian"},
		Ingredients: []string{
			"3 eggs",
			"1 tbsp butter",
			"pinch of salt",
		},
		Instructions: []string{
			"Whisk the eggs with the salt until no streaks remain.",
			"Melt the butter in a non-stick pan over low heat and add the eggs.",
			"Stir constantly with a spatula, pulling the pan off the heat whenever it sets too fast. Serve while glossy.",
		},
	}
}
