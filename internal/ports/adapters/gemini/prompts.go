package gemini

const introEndTask = `Analyze this video clip from the beginning of a film. Identify the exact timestamp (in MM:SS format) where the first scene of the main, continuous narrative body of the film begins. This point must occur after the full conclusion of ALL of the following elements:
All studio logos and distributor cards (e.g., "splendid film").
The main title card of the film itself (e.g., "BLACK BEAR").
All subsequent production company cards, "presents" cards, or "in association with" cards.
Essentially, I'm looking for the moment the film transitions from all opening textual and logo elements into the primary storyline, not including any brief prologue or thematic vignette that might precede the main title.`

const introEndFormat = `Only return the timestamp in MM:SS format. Do not include any other text or explanation. For example, if the first scene begins at 1 minute and 30 seconds, simply return "01:30".`

const introBoundsTask = `Analyze this video clip from the beginning of a film. Detect the start and end times of the intro sequence.
1. Identify the exact timestamp (in MM:SS format) where the intro sequence begins. The intro sequence may include the following elements:
- Studio logos and distributor cards (e.g., "splendid film").
- The main title card of the film itself (e.g., "BLACK BEAR").
2. Identify the exact timestamp (in MM:SS format) of where the intro ends. This is where the first scene of the main, continuous narrative body of the film begins. This point must occur after the full conclusion of ALL of the following elements:
All studio logos and distributor cards (e.g., "splendid film").
The main title card of the film itself (e.g., "BLACK BEAR").
All subsequent production company cards, "presents" cards, or "in association with" cards.
Essentially, I'm looking for the moment the film transitions from all opening textual and logo elements into the primary storyline, not including any brief prologue or thematic vignette that might precede the main title.`

const introBoundsFormat = `Return the timestamps in MM:SS format. Do not include any other text or explanation. For example, if the intro starts at 00:00 and ends at 00:45, simply return "
intro_start: 00:00
intro_end: 00:45"`

const creditsStartTask = `Please analyze this video clip, which includes the end of a film. Identify the exact timestamp (in MM:SS format) where the main ending credits sequence begins.
This is typically characterized by:
The appearance of a list of names (e.g., cast, crew, departments, song titles).
These names usually scroll (often vertically from bottom to top) or are displayed on a series of static cards.
This sequence starts after the primary narrative of the film has clearly concluded.
The timestamp should mark the moment the first name/role of this main credit sequence appears on screen.
Please specifically exclude from this point:
Any final narrative scenes, epilogues, or "where are they now" segments, even if they lead directly into the credits or have some text overlay.
Standalone "The End," "Fin," or similar concluding text cards that appear before the detailed credit list begins (unless these cards are stylistically integrated as the very first card of the credit roll itself).
Studio/distributor logos that might appear before the credits or after the credits have finished.
The start of any post-credits scenes (if the credits pause for a scene and then resume, I'm looking for the initial start of the main credit roll).
Essentially, I'm looking for the transition from the film's narrative closure to the formal listing of personnel and acknowledgments.`

const creditsStartFormat = `Only return the timestamp in MM:SS format. Do not include any other text or explanation. For example, if the credits begin at 1 minute and 30 seconds, simply return "01:30".`
