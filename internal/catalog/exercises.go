package catalog

// exercises is the static catalog. Legacy short names are kept so that
// older logs still resolve.
var exercises = []row{
	// Chest
	{"Barbell Bench Press", "Chest", []string{"Triceps", "Front Delts"}, Compound, Intermediate, Barbell},
	{"Incline DB Press", "Chest", []string{"Triceps", "Front Delts"}, Compound, Intermediate, Dumbbell},
	{"Flat DB Press", "Chest", []string{"Triceps", "Front Delts"}, Compound, Intermediate, Dumbbell},
	{"Pec Deck", "Chest", []string{"Front Delts"}, Isolation, Beginner, Machine},
	{"Cable Crossover", "Chest", []string{"Front Delts"}, Isolation, Beginner, Cable},
	{"Push-Up", "Chest", []string{"Triceps", "Core"}, Compound, Intermediate, Bodyweight},
	{"Machine Chest Press", "Chest", []string{"Triceps", "Front Delts"}, Compound, Intermediate, Machine},
	{"Incline Cable Press", "Chest", []string{"Triceps", "Front Delts"}, Compound, Intermediate, Cable},
	{"Dips (Chest Lean)", "Chest", []string{"Triceps", "Front Delts"}, Compound, Intermediate, Bodyweight},
	// Shoulders
	{"Overhead Barbell Press", "Shoulders", []string{"Triceps", "Upper Chest"}, Compound, Intermediate, Barbell},
	{"Dumbbell Shoulder Press", "Shoulders", []string{"Triceps", "Upper Chest"}, Compound, Intermediate, Dumbbell},
	{"Arnold Press", "Shoulders", []string{"Triceps", "Front Delts"}, Compound, Intermediate, Dumbbell},
	{"Seated Lateral Raise", "Side Delts", []string{"Upper Traps"}, Isolation, Beginner, Dumbbell},
	{"Cable Lateral Raise", "Side Delts", []string{"Upper Traps"}, Isolation, Beginner, Cable},
	{"Dumbbell Front Raise", "Front Delts", []string{"Upper Chest"}, Isolation, Beginner, Dumbbell},
	{"Rear Delt Fly (Machine or DB)", "Rear Delts", []string{"Upper Back", "Traps"}, Isolation, Beginner, NoEquipment},
	{"Face Pull", "Rear Delts", []string{"Traps", "Rotator Cuff"}, Isolation, Beginner, Cable},
	{"Upright Row", "Traps", []string{"Side Delts"}, Compound, Intermediate, Barbell},
	// Legs - Quads dominant
	{"Barbell Back Squat", "Quads", []string{"Glutes", "Hamstrings", "Core"}, Compound, Intermediate, Barbell},
	{"Front Squat", "Quads", []string{"Glutes", "Core"}, Compound, Advanced, Barbell},
	{"Goblet Squat", "Quads", []string{"Glutes", "Core"}, Compound, Intermediate, Dumbbell},
	{"Hack Squat", "Quads", []string{"Glutes", "Hamstrings"}, Compound, Advanced, Machine},
	{"Leg Press", "Quads", []string{"Glutes", "Hamstrings"}, Compound, Intermediate, Machine},
	{"Walking Lunges", "Glutes", []string{"Quads", "Hamstrings"}, Compound, Intermediate, Bodyweight},
	{"Bulgarian Split Squat", "Quads", []string{"Glutes", "Core"}, Compound, Intermediate, Dumbbell},
	{"Step-Ups", "Glutes", []string{"Quads", "Hamstrings"}, Compound, Intermediate, Bodyweight},
	{"Sled Push", "Quads", []string{"Glutes", "Hamstrings", "Calves"}, Compound, Intermediate, Other},
	// Posterior chain
	{"Romanian Deadlift", "Hamstrings", []string{"Glutes", "Lower Back"}, Compound, Intermediate, Barbell},
	{"Conventional Deadlift", "Back", []string{"Glutes", "Hamstrings", "Traps"}, Compound, Advanced, Barbell},
	{"Sumo Deadlift", "Glutes", []string{"Quads", "Hamstrings", "Adductors"}, Compound, Advanced, Barbell},
	{"Good Morning", "Hamstrings", []string{"Glutes", "Lower Back"}, Compound, Advanced, Barbell},
	{"Seated Leg Curl", "Hamstrings", []string{"Calves"}, Isolation, Beginner, Machine},
	{"Lying Leg Curl", "Hamstrings", []string{"Calves"}, Isolation, Beginner, Machine},
	{"Standing Leg Curl (Cable)", "Hamstrings", nil, Isolation, Beginner, Cable},
	// Calves & Tibialis
	{"Standing Calf Raise", "Calves", nil, Isolation, Beginner, Machine},
	{"Seated Calf Raise", "Calves", nil, Isolation, Beginner, Machine},
	{"Tibialis Raise", "Tibialis Anterior", nil, Isolation, Beginner, Bodyweight},
	// Back
	{"Pull-Up / Chin-Up", "Lats", []string{"Biceps", "Core"}, Compound, Intermediate, Bodyweight},
	{"Lat Pulldown", "Lats", []string{"Biceps", "Rear Delts"}, Compound, Intermediate, Cable},
	{"Barbell Row", "Lats", []string{"Rear Delts", "Biceps"}, Compound, Intermediate, Barbell},
	{"Dumbbell Row", "Lats", []string{"Rear Delts", "Biceps"}, Compound, Intermediate, Dumbbell},
	{"T-Bar Row", "Lats", []string{"Biceps", "Rear Delts"}, Compound, Intermediate, Barbell},
	{"Seated Cable Row", "Lats", []string{"Biceps", "Rear Delts"}, Compound, Intermediate, Cable},
	{"Straight-Arm Lat Pulldown", "Lats", []string{"Rear Delts"}, Isolation, Beginner, Cable},
	{"Shrugs", "Traps", nil, Isolation, Beginner, Barbell},
	// Arms - Biceps
	{"Barbell Curl", "Biceps", []string{"Forearms"}, Isolation, Beginner, Barbell},
	{"Dumbbell Curl", "Biceps", []string{"Forearms"}, Isolation, Beginner, Dumbbell},
	{"Preacher Curl", "Biceps", nil, Isolation, Beginner, Barbell},
	{"Incline DB Curl", "Biceps", nil, Isolation, Beginner, Dumbbell},
	{"Cable Curl", "Biceps", nil, Isolation, Beginner, Cable},
	{"Concentration Curl", "Biceps", nil, Isolation, Beginner, Dumbbell},
	{"Hammer Curl", "Biceps (Brachialis)", []string{"Forearms"}, Isolation, Beginner, Dumbbell},
	{"Zottman Curl", "Biceps", []string{"Forearms"}, Isolation, Beginner, Dumbbell},
	{"Reverse Curl", "Forearms", []string{"Biceps (Brachialis)"}, Isolation, Beginner, Barbell},
	{"Wrist Curl / Reverse Wrist Curl", "Forearms", nil, Isolation, Beginner, Barbell},
	// Arms - Triceps
	{"Triceps Pushdown", "Triceps", nil, Isolation, Beginner, Cable},
	{"Overhead Triceps Extension", "Triceps", nil, Isolation, Beginner, Barbell},
	{"Skull Crushers", "Triceps", nil, Isolation, Beginner, Barbell},
	{"Dips (Triceps Focus)", "Triceps", []string{"Chest", "Front Delts"}, Compound, Intermediate, Bodyweight},
	{"Close-Grip Bench Press", "Triceps", []string{"Chest", "Front Delts"}, Compound, Intermediate, Barbell},
	{"Lying Triceps Extension", "Triceps", nil, Isolation, Beginner, Barbell},
	{"Kickbacks (Cable/DB)", "Triceps", nil, Isolation, Beginner, NoEquipment},
	// Core
	{"Crunches", "Abs", nil, Isolation, Beginner, Bodyweight},
	{"Hanging Leg Raise", "Abs", []string{"Hip Flexors"}, Isolation, Beginner, Bodyweight},
	{"Cable Crunch", "Abs", nil, Isolation, Beginner, Cable},
	{"Reverse Crunch", "Lower Abs", nil, Isolation, Beginner, Bodyweight},
	{"Russian Twist", "Obliques", []string{"Core"}, Isolation, Beginner, Bodyweight},
	{"Side Plank", "Obliques", []string{"Core"}, Isolation, Beginner, Bodyweight},
	{"Plank", "Core", []string{"Glutes", "Abs"}, Isometric, Beginner, Bodyweight},
	{"Cable Woodchopper", "Obliques", []string{"Core"}, Isolation, Beginner, Cable},
	{"Dragon Flag", "Abs", []string{"Hip Flexors"}, Isolation, Advanced, Bodyweight},
	{"Landmine Rotation", "Obliques", []string{"Core", "Shoulders"}, Compound, Intermediate, Other},
	// Misc / full body
	{"Farmer's Carry", "Traps", []string{"Core", "Forearms", "Grip"}, Compound, Intermediate, Other},
	{"Hip Thrust", "Glutes", []string{"Hamstrings", "Core"}, Compound, Intermediate, Barbell},
	{"Glute Bridge", "Glutes", []string{"Hamstrings"}, Compound, Intermediate, Bodyweight},
	{"Glute Kickback (Cable)", "Glutes", []string{"Hamstrings"}, Isolation, Beginner, Cable},
	{"Cable Abduction", "Glute Medius", nil, Isolation, Beginner, Cable},
	{"Adductor Machine", "Adductors", nil, Isolation, Beginner, Machine},
	{"Abductor Machine", "Glute Medius", nil, Isolation, Beginner, Machine},
	{"Donkey Kick", "Glutes", []string{"Hamstrings"}, Isolation, Beginner, Bodyweight},
	// Names as exported by Hevy
	{"Bench Press (Barbell)", "Chest", []string{"Triceps", "Front Delts"}, Compound, Intermediate, Barbell},
	{"Bench Press (Dumbbell)", "Chest", []string{"Triceps", "Front Delts"}, Compound, Beginner, Dumbbell},
	{"Incline Bench Press (Barbell)", "Chest", []string{"Front Delts", "Triceps"}, Compound, Intermediate, Barbell},
	{"Incline Bench Press (Dumbbell)", "Chest", []string{"Front Delts", "Triceps"}, Compound, Beginner, Dumbbell},
	{"Decline Bench Press (Barbell)", "Chest", []string{"Triceps"}, Compound, Intermediate, Barbell},
	{"Chest Fly (Dumbbell)", "Chest", []string{"Front Delts"}, Isolation, Beginner, Dumbbell},
	{"Chest Fly (Machine)", "Chest", []string{"Front Delts"}, Isolation, Beginner, Machine},
	{"Chest Press (Machine)", "Chest", []string{"Triceps", "Front Delts"}, Compound, Beginner, Machine},
	{"Chest Dip", "Chest", []string{"Triceps", "Front Delts"}, Compound, Intermediate, Bodyweight},
	{"Overhead Press (Barbell)", "Shoulders", []string{"Triceps", "Upper Chest"}, Compound, Intermediate, Barbell},
	{"Shoulder Press (Dumbbell)", "Shoulders", []string{"Triceps"}, Compound, Beginner, Dumbbell},
	{"Shoulder Press (Machine Plates)", "Shoulders", []string{"Triceps"}, Compound, Beginner, Machine},
	{"Lateral Raise (Dumbbell)", "Side Delts", []string{"Upper Traps"}, Isolation, Beginner, Dumbbell},
	{"Lateral Raise (Cable)", "Side Delts", []string{"Upper Traps"}, Isolation, Beginner, Cable},
	{"Lateral Raise (Machine)", "Side Delts", []string{"Upper Traps"}, Isolation, Beginner, Machine},
	{"Rear Delt Reverse Fly (Dumbbell)", "Rear Delts", []string{"Upper Back"}, Isolation, Beginner, Dumbbell},
	{"Rear Delt Reverse Fly (Machine)", "Rear Delts", []string{"Upper Back"}, Isolation, Beginner, Machine},
	{"Shrug (Barbell)", "Traps", nil, Isolation, Beginner, Barbell},
	{"Shrug (Dumbbell)", "Traps", nil, Isolation, Beginner, Dumbbell},
	{"Squat (Barbell)", "Quads", []string{"Glutes", "Hamstrings", "Core"}, Compound, Intermediate, Barbell},
	{"Front Squat (Barbell)", "Quads", []string{"Glutes", "Core"}, Compound, Advanced, Barbell},
	{"Squat (Smith Machine)", "Quads", []string{"Glutes"}, Compound, Beginner, Machine},
	{"Leg Press (Machine)", "Quads", []string{"Glutes", "Hamstrings"}, Compound, Beginner, Machine},
	{"Leg Extension (Machine)", "Quads", nil, Isolation, Beginner, Machine},
	{"Lunge (Dumbbell)", "Glutes", []string{"Quads", "Hamstrings"}, Compound, Beginner, Dumbbell},
	{"Lunge (Barbell)", "Glutes", []string{"Quads", "Hamstrings"}, Compound, Intermediate, Barbell},
	{"Bulgarian Split Squat (Dumbbell)", "Quads", []string{"Glutes", "Core"}, Compound, Intermediate, Dumbbell},
	{"Deadlift (Barbell)", "Back", []string{"Glutes", "Hamstrings", "Traps"}, Compound, Advanced, Barbell},
	{"Sumo Deadlift (Barbell)", "Glutes", []string{"Quads", "Hamstrings", "Adductors"}, Compound, Advanced, Barbell},
	{"Romanian Deadlift (Barbell)", "Hamstrings", []string{"Glutes", "Lower Back"}, Compound, Intermediate, Barbell},
	{"Romanian Deadlift (Dumbbell)", "Hamstrings", []string{"Glutes", "Lower Back"}, Compound, Beginner, Dumbbell},
	{"Stiff Leg Deadlift (Barbell)", "Hamstrings", []string{"Glutes", "Lower Back"}, Compound, Intermediate, Barbell},
	{"Trap Bar Deadlift", "Quads", []string{"Glutes", "Hamstrings", "Traps"}, Compound, Intermediate, Other},
	{"Seated Leg Curl (Machine)", "Hamstrings", []string{"Calves"}, Isolation, Beginner, Machine},
	{"Nordic Hamstring Curl", "Hamstrings", nil, Isolation, Advanced, Bodyweight},
	{"Hip Thrust (Barbell)", "Glutes", []string{"Hamstrings", "Core"}, Compound, Intermediate, Barbell},
	{"Hip Thrust (Machine)", "Glutes", []string{"Hamstrings"}, Compound, Beginner, Machine},
	{"Hip Adduction (Machine)", "Adductors", nil, Isolation, Beginner, Machine},
	{"Hip Abduction (Machine)", "Glute Medius", nil, Isolation, Beginner, Machine},
	{"Back Extension", "Lower Back", []string{"Glutes", "Hamstrings"}, Isolation, Beginner, Bodyweight},
	{"Standing Calf Raise (Machine)", "Calves", nil, Isolation, Beginner, Machine},
	{"Seated Calf Raise (Machine)", "Calves", nil, Isolation, Beginner, Machine},
	{"Calf Press on Leg Press", "Calves", nil, Isolation, Beginner, Machine},
	{"Pull Up", "Lats", []string{"Biceps", "Core"}, Compound, Intermediate, Bodyweight},
	{"Chin Up", "Lats", []string{"Biceps"}, Compound, Intermediate, Bodyweight},
	{"Pull Up (Weighted)", "Lats", []string{"Biceps", "Core"}, Compound, Advanced, Bodyweight},
	{"Lat Pulldown (Cable)", "Lats", []string{"Biceps", "Rear Delts"}, Compound, Beginner, Cable},
	{"Lat Pulldown (Machine)", "Lats", []string{"Biceps", "Rear Delts"}, Compound, Beginner, Machine},
	{"Bent Over Row (Barbell)", "Lats", []string{"Rear Delts", "Biceps"}, Compound, Intermediate, Barbell},
	{"Bent Over Row (Dumbbell)", "Lats", []string{"Rear Delts", "Biceps"}, Compound, Beginner, Dumbbell},
	{"Pendlay Row (Barbell)", "Lats", []string{"Rear Delts", "Biceps", "Lower Back"}, Compound, Advanced, Barbell},
	{"Seated Cable Row - V Grip (Cable)", "Lats", []string{"Biceps", "Rear Delts"}, Compound, Beginner, Cable},
	{"Seated Row (Machine)", "Lats", []string{"Biceps", "Rear Delts"}, Compound, Beginner, Machine},
	{"Chest Supported Incline Row (Dumbbell)", "Lats", []string{"Rear Delts", "Biceps"}, Compound, Beginner, Dumbbell},
	{"Face Pull (Cable)", "Rear Delts", []string{"Traps", "Rotator Cuff"}, Isolation, Beginner, Cable},
	{"Bicep Curl (Barbell)", "Biceps", []string{"Forearms"}, Isolation, Beginner, Barbell},
	{"Bicep Curl (Dumbbell)", "Biceps", []string{"Forearms"}, Isolation, Beginner, Dumbbell},
	{"Bicep Curl (Cable)", "Biceps", nil, Isolation, Beginner, Cable},
	{"EZ Bar Biceps Curl", "Biceps", []string{"Forearms"}, Isolation, Beginner, Barbell},
	{"Hammer Curl (Dumbbell)", "Biceps (Brachialis)", []string{"Forearms"}, Isolation, Beginner, Dumbbell},
	{"Preacher Curl (Machine)", "Biceps", nil, Isolation, Beginner, Machine},
	{"Triceps Pushdown (Cable)", "Triceps", nil, Isolation, Beginner, Cable},
	{"Triceps Rope Pushdown", "Triceps", nil, Isolation, Beginner, Cable},
	{"Triceps Extension (Dumbbell)", "Triceps", nil, Isolation, Beginner, Dumbbell},
	{"Overhead Triceps Extension (Cable)", "Triceps", nil, Isolation, Beginner, Cable},
	{"Skullcrusher (Barbell)", "Triceps", nil, Isolation, Intermediate, Barbell},
	{"Triceps Dip", "Triceps", []string{"Chest", "Front Delts"}, Compound, Intermediate, Bodyweight},
	{"Bench Press - Close Grip (Barbell)", "Triceps", []string{"Chest", "Front Delts"}, Compound, Intermediate, Barbell},
	{"Crunch", "Abs", nil, Isolation, Beginner, Bodyweight},
	{"Crunch (Machine)", "Abs", nil, Isolation, Beginner, Machine},
	{"Leg Raise Parallel Bars", "Abs", []string{"Hip Flexors"}, Isolation, Intermediate, Bodyweight},
	{"Ab Wheel", "Abs", []string{"Core", "Lats"}, Compound, Intermediate, Other},
	{"Hollow Body Hold", "Abs", []string{"Core"}, Isometric, Intermediate, Bodyweight},
	{"Dead Hang", "Forearms", []string{"Lats"}, Isometric, Beginner, Bodyweight},
	{"Wall Sit", "Quads", []string{"Glutes"}, Isometric, Beginner, Bodyweight},
	{"Pallof Press", "Obliques", []string{"Core"}, Isometric, Beginner, Cable},
	{"Kettlebell Swing", "Glutes", []string{"Hamstrings", "Lower Back"}, Compound, Intermediate, Other},
	{"Clean and Press", "Shoulders", []string{"Quads", "Glutes", "Traps"}, Compound, Advanced, Barbell},
	{"Power Clean", "Hamstrings", []string{"Glutes", "Traps", "Quads"}, Compound, Advanced, Barbell},
	{"Snatch", "Shoulders", []string{"Quads", "Glutes", "Traps"}, Compound, Advanced, Barbell},
	{"Thruster (Barbell)", "Quads", []string{"Shoulders", "Glutes"}, Compound, Intermediate, Barbell},
	// Plyometrics
	{"Box Jump", "Quads", []string{"Glutes", "Calves"}, Plyometric, Intermediate, Bodyweight},
	{"Jump Squat", "Quads", []string{"Glutes", "Calves"}, Plyometric, Intermediate, Bodyweight},
	{"Burpee", "Full Body", []string{"Chest", "Quads", "Core"}, Plyometric, Beginner, Bodyweight},
	{"Clap Push-Up", "Chest", []string{"Triceps", "Front Delts"}, Plyometric, Advanced, Bodyweight},
	{"Broad Jump", "Glutes", []string{"Quads", "Hamstrings"}, Plyometric, Intermediate, Bodyweight},
	{"Medicine Ball Slam", "Core", []string{"Lats", "Shoulders"}, Plyometric, Beginner, Other},
	{"Jump Rope", "Calves", []string{"Shoulders"}, Plyometric, Beginner, Other},
	// Cardio
	{"Running", "Cardio", []string{"Quads", "Calves"}, Cardio, Beginner, Bodyweight},
	{"Treadmill", "Cardio", []string{"Quads", "Calves"}, Cardio, Beginner, Machine},
	{"Cycling", "Cardio", []string{"Quads"}, Cardio, Beginner, Machine},
	{"Rowing Machine", "Cardio", []string{"Lats", "Quads"}, Cardio, Beginner, Machine},
	{"Elliptical Trainer", "Cardio", []string{"Quads", "Glutes"}, Cardio, Beginner, Machine},
	{"Stair Machine", "Cardio", []string{"Glutes", "Quads"}, Cardio, Beginner, Machine},
	{"Air Bike", "Cardio", []string{"Quads", "Shoulders"}, Cardio, Beginner, Machine},
	{"Swimming", "Cardio", []string{"Lats", "Shoulders"}, Cardio, Intermediate, Other},
	{"Walking", "Cardio", []string{"Calves"}, Cardio, Beginner, Bodyweight},
	{"Sled Drag", "Cardio", []string{"Quads", "Glutes"}, Cardio, Intermediate, Other},
	// Legacy synonyms
	{"Bench", "Chest", nil, Compound, NoDifficulty, NoEquipment},
	{"Bench Press", "Chest", nil, Compound, NoDifficulty, NoEquipment},
	{"Squat", "Quads", nil, Compound, NoDifficulty, NoEquipment},
	{"Deadlift", "Back", nil, Compound, NoDifficulty, NoEquipment},
	{"Lying Leg Curl (Machine)", "Hamstrings", []string{"Calves"}, Isolation, NoDifficulty, NoEquipment},
	{"Bicep Curl", "Biceps", []string{"Forearms"}, Isolation, NoDifficulty, NoEquipment},
}
