package stations

// names lists the stations of the Belarusian railway as the ticket site
// spells them.
var names = []string{
	"Абухово",
	"Авраамовская",
	"Адамово",
	"Алеща",
	"Андреевичи",
	"Аульс",
	"Бабичи",
	"Баравуха",
	"Барановичи",
	"Барановичи-Полесские",
	"Барановичи-Центральные",
	"Барбаров",
	"Бастуны",
	"Беларусь",
	"Белоозерск",
	"Белынковичи",
	"Беняконе",
	"Береза",
	"Береза-Картузская",
	"Березина",
	"Берестовица",
	"Бигосово",
	"Бобр",
	"Бобровники",
	"Бобруйск",
	"Бобруйск-1",
	"Богушевская",
	"Болбасово",
	"Большевик",
	"Борисов",
	"Борисов-Полесский",
	"Бояры",
	"Брагин",
	"Брест",
	"Брест-Северный",
	"Брест-Центральный",
	"Будслав",
	"Бумажково",
	"Бытень",
	"Василевичи",
	"Вендриж",
	"Верейцы",
	"Веремейки",
	"Верхнедвинск",
	"Видибор",
	"Вилейка",
	"Витебск",
	"Витебск-Пассажирский",
	"Витебск-Сортировочный",
	"Волковыск",
	"Волковыск-Северный",
	"Волковыск-Центральный",
	"Волма",
	"Воловель",
	"Воровляны",
	"Восточный",
	"Вулька",
	"Выгонощи",
	"Высокое",
	"Высокое-Лида",
	"Гайдуковка",
	"Ганцевичи",
	"Гатово",
	"Глубокое",
	"Глуск",
	"Глуска",
	"Гомель",
	"Гомель-Пассажирский",
	"Гомель-Сортировочный",
	"Горки",
	"Городея",
	"Городище",
	"Городок",
	"Горынь",
	"Гравжишки",
	"Гродно",
	"Грузовая Гомель",
	"Гудогай",
	"Гута",
	"Давид-Городок",
	"Дегтяревка",
	"Детково",
	"Детчино",
	"Добруш",
	"Докшицы",
	"Доманово",
	"Дорогичин",
	"Дрогичин",
	"Друя",
	"Дубица",
	"Дубровно",
	"Дятлово",
	"Ельск",
	"Жабинка",
	"Житковичи",
	"Жлобин",
	"Жлобин-1",
	"Жлобин-Сортировочный",
	"Заболотье",
	"Заболотье-Сортировочное",
	"Залесье",
	"Западный",
	"Заславль",
	"Зельва",
	"Зябровка",
	"Иваново",
	"Ивацевичи",
	"Ивенец",
	"Ивье",
	"Илья",
	"Индустриальный",
	"Институт Культуры",
	"Калинковичи",
	"Калинковичи-1",
	"Калинковичи-2",
	"Калинковичи-Сортировочные",
	"Каменец",
	"Камень",
	"Каменюки",
	"Качановичи",
	"Кобрин",
	"Кобрин-Северный",
	"Козенки",
	"Козловичи",
	"Колядичи",
	"Копыль",
	"Кореличи",
	"Кореневка",
	"Корма",
	"Косово",
	"Коссово-Пески",
	"Костюковичи",
	"Костюковка",
	"Котовка",
	"Кошелево",
	"Кощино",
	"Красное",
	"Красносельский",
	"Красный Берег",
	"Криничная",
	"Кричев",
	"Кричев-1",
	"Кричев-2",
	"Кроты",
	"Круглое",
	"Крупки",
	"Крыжовка",
	"Крылы",
	"Курган",
	"Куровичи",
	"Кушлики",
	"Лавришево",
	"Лельчицы",
	"Ленино",
	"Лепель",
	"Лесной",
	"Лида",
	"Лиозно",
	"Лобжа",
	"Логойск",
	"Локтыши",
	"Ломачи",
	"Лошница",
	"Лукашевичи",
	"Лунинец",
	"Любань",
	"Любча",
	"Люсино",
	"Ляховичи",
	"Малорита",
	"Марковичи",
	"Марковщина",
	"Марьина Горка",
	"Матвеевцы",
	"Мачулищи",
	"Медведевка",
	"Медвежино",
	"Межисетки",
	"Межисетки-Сорт",
	"Микашевичи",
	"Милейки",
	"Минск",
	"Минск-Восточный",
	"Минск-Городской",
	"Минск-Дружная",
	"Минск-Западный",
	"Минск-Институт Культуры",
	"Минск-Курасовщина",
	"Минск-Лесной",
	"Минск-Молодечно",
	"Минск-Озерцо",
	"Минск-Партизанская",
	"Минск-Пассажирский",
	"Минск-Северное Кольцо",
	"Минск-Северный",
	"Минск-Северный-2",
	"Минск-Сортировочный",
	"Минск-Центральный",
	"Минск-Южный",
	"Могилев",
	"Могилев-1",
	"Могилев-2",
	"Молодечно",
	"Морочь",
	"Мосты",
	"Мотоль",
	"Мощаница",
	"Мушино",
	"Навляны",
	"Наровля",
	"Негорелое",
	"Неман",
	"Неман-2",
	"Новая Рудня",
	"Новогрудок",
	"Новозыбков",
	"Новосады",
	"Новоселки",
	"Новощино",
	"Нёман",
	"Оболь",
	"Обухово",
	"Озерцы",
	"Октябрьский",
	"Ольшаны",
	"Орша",
	"Орша-Восточная",
	"Орша-Сортировочная",
	"Орша-Центральная",
	"Осиповичи",
	"Осиповичи-1",
	"Осиповичи-2",
	"Осташковичи",
	"Островец",
	"Островляны",
	"Ошмяны",
	"Павловичи",
	"Пагост",
	"Панковичи",
	"Парафьяново",
	"Паричи",
	"Песчанка",
	"Петриков",
	"Пинск",
	"Пиревичи",
	"Плоское",
	"Половцы",
	"Полоцк",
	"Полоцк-Сортировочный",
	"Понемонец",
	"Поставы",
	"Потаповичи",
	"Пружаны",
	"Птичь",
	"Пустошка",
	"Пуховичи",
	"Пятигорье",
	"Радошковичи",
	"Радунь",
	"Райца",
	"Раков",
	"Рассвет",
	"Ратмировичи",
	"Речица",
	"Речица-Северная",
	"Рогачев",
	"Россь",
	"Руба",
	"Руденск",
	"Ружаны",
	"Светлогорск",
	"Светлогорск-на-Березине",
	"Свислочь",
	"Селец",
	"Семежево",
	"Сенно",
	"Серафимово",
	"Сервечь",
	"Ситница",
	"Скидель",
	"Славгород",
	"Слободка",
	"Слоним",
	"Слуцк",
	"Смолевичи",
	"Сморгонь",
	"Снежка",
	"Соболи",
	"Сокольники",
	"Солигорск",
	"Сосны",
	"Станция Полесье",
	"Старобин",
	"Столбцы",
	"Столин",
	"Страдечь",
	"Струмень",
	"Сураж",
	"Сухиничи",
	"Сущево",
	"Талька",
	"Татарщина",
	"Тереховка",
	"Толочин",
	"Турки",
	"Туров",
	"Тюлечицы",
	"Узда",
	"Узляны",
	"Усяж",
	"Ушачи",
	"Фаниполь",
	"Фариново",
	"Фашча",
	"Филиповичи",
	"Флорианово",
	"Фроловичи",
	"Хойники",
	"Холопеничи",
	"Хотимск",
	"Чаусы",
	"Чашники",
	"Чечерск",
	"Чудин",
	"Чудиново",
	"Чуриловичи",
	"Шарковщина",
	"Шатилки",
	"Шепели",
	"Шерешево",
	"Шумилино",
	"Щедрин",
	"Щучин",
	"Энергетик",
	"Юратишки",
	"Якубовка",
	"Ямное",
	"Янов-Полесский",
	"Яновичи",
	"Ясенин",
}
